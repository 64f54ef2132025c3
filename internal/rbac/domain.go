// Package rbac maps roles to their allowed capabilities and decides
// whether an authenticated identity may perform an operation.
package rbac

// Role is a fixed identity classification controlling default capabilities.
type Role string

// The closed set of roles. Assigning anything outside this set to a user is
// a programming error; lookups for unknown roles fail closed.
const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleEmployee       Role = "employee"
	RoleContentEditor  Role = "content_editor"
)

// Permission names an atomic capability. No hierarchy: membership in a
// role's set is the only relation.
type Permission string

// Capabilities referenced by handlers and services.
const (
	PermManageUsers       Permission = "manage_users"
	PermManageEmployees   Permission = "manage_employees"
	PermManageProjects    Permission = "manage_projects"
	PermManageTasks       Permission = "manage_tasks"
	PermManageBlogs       Permission = "manage_blogs"
	PermManageSettings    Permission = "manage_settings"
	PermViewAllAttendance Permission = "view_all_attendance"
	PermManageAttendance  Permission = "manage_attendance"

	PermCreateProjects    Permission = "create_projects"
	PermManageOwnProjects Permission = "manage_own_projects"
	PermCreateTasks       Permission = "create_tasks"
	PermViewTeamAttend    Permission = "view_team_attendance"

	PermViewOwnTasks      Permission = "view_own_tasks"
	PermUpdateOwnTasks    Permission = "update_own_tasks"
	PermMarkAttendance    Permission = "mark_attendance"
	PermViewOwnAttendance Permission = "view_own_attendance"

	PermCreateBlogs  Permission = "create_blogs"
	PermEditOwnBlogs Permission = "edit_own_blogs"
	PermViewBlogs    Permission = "view_blogs"
)

// rolePermissions is the process-wide permission table. Defined once, read
// only after initialization, never mutated at runtime. Every role's set is
// listed explicitly and exhaustively; nothing is inherited.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermManageUsers,
		PermManageEmployees,
		PermManageProjects,
		PermManageTasks,
		PermManageBlogs,
		PermManageSettings,
		PermViewAllAttendance,
		PermManageAttendance,
	},
	RoleAdmin: {
		PermManageEmployees,
		PermManageProjects,
		PermManageTasks,
		PermManageBlogs,
		PermViewAllAttendance,
		PermManageAttendance,
	},
	RoleProjectManager: {
		PermCreateProjects,
		PermManageOwnProjects,
		PermCreateTasks,
		PermManageTasks,
		PermViewTeamAttend,
	},
	RoleEmployee: {
		PermViewOwnTasks,
		PermUpdateOwnTasks,
		PermMarkAttendance,
		PermViewOwnAttendance,
	},
	RoleContentEditor: {
		PermCreateBlogs,
		PermEditOwnBlogs,
		PermViewBlogs,
	},
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// HasPermission reports whether the role carries the named permission.
// Pure and total: unknown roles yield false, never an error.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionsFor returns a copy of the role's permission set. Unknown roles
// yield an empty set so callers stay unauthorized by default.
func PermissionsFor(role Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// RoleIn reports exact membership of role in the allow-list. No wildcards.
func RoleIn(role Role, allowed ...Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
