package rbac

import (
	"fmt"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Check declares what an operation requires. Fields combine with OR
// semantics: ownership alone is sufficient even when the role check fails.
type Check struct {
	// Roles is a fixed allow-list; empty means no role-list check.
	Roles []Role
	// Permission names a capability looked up in the role table; empty
	// means no permission check.
	Permission Permission
	// Owner is the evaluated ownership predicate for the target resource.
	Owner bool
}

// Authorize decides allow/deny for the identity. Denials wrap
// httpx.ErrForbidden so the boundary maps them to 403. The permission name
// appears in the denial message; call sites depend on that wording.
func Authorize(id shared.Identity, c Check) error {
	if c.Owner {
		return nil
	}
	role := Role(id.Role)
	if len(c.Roles) > 0 && RoleIn(role, c.Roles...) {
		return nil
	}
	if c.Permission != "" && HasPermission(role, c.Permission) {
		return nil
	}
	if c.Permission != "" {
		return fmt.Errorf("%w: permission denied: %s", httpx.ErrForbidden, c.Permission)
	}
	return fmt.Errorf("%w: not authorized", httpx.ErrForbidden)
}

// RequireRoles is Authorize with only a role allow-list.
func RequireRoles(id shared.Identity, allowed ...Role) error {
	return Authorize(id, Check{Roles: allowed})
}

// RequirePermission is Authorize with only a named permission.
func RequirePermission(id shared.Identity, perm Permission) error {
	return Authorize(id, Check{Permission: perm})
}
