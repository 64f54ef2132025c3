package blogs

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Service implements blog use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the blog service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List returns posts. Content editors see only their own.
func (s *Service) List(ctx context.Context, id shared.Identity, f Filter, limit, offset int) ([]Blog, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown blog status %q", httpx.ErrValidation, f.Status)
	}
	if rbac.Role(id.Role) == rbac.RoleContentEditor {
		f.AuthorID = id.UserID
	}
	return s.repo.List(ctx, f, limit, offset)
}

// Get fetches one post by id.
func (s *Service) Get(ctx context.Context, id shared.Identity, blogID int64) (*Blog, error) {
	return s.repo.Get(ctx, blogID)
}

// GetBySlug fetches one post by slug.
func (s *Service) GetBySlug(ctx context.Context, id shared.Identity, slug string) (*Blog, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Create adds a post as a draft unless an explicit status is given. The
// slug is derived from the title when not provided.
func (s *Service) Create(ctx context.Context, id shared.Identity, b *Blog) (*Blog, error) {
	err := rbac.Authorize(id, rbac.Check{
		Roles:      []rbac.Role{rbac.RoleSuperAdmin, rbac.RoleAdmin},
		Permission: rbac.PermCreateBlogs,
	})
	if err != nil {
		return nil, err
	}
	if b.Status == "" {
		b.Status = StatusDraft
	}
	if !b.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown blog status %q", httpx.ErrValidation, b.Status)
	}
	if b.Status == StatusPublished {
		if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
			return nil, err
		}
		now := s.now()
		b.PublishedAt = &now
	}
	if b.Slug == "" {
		b.Slug = Slugify(b.Title)
	} else {
		b.Slug = Slugify(b.Slug)
	}
	if b.Slug == "" {
		return nil, fmt.Errorf("%w: title does not yield a usable slug", httpx.ErrValidation)
	}
	b.AuthorID = id.UserID
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	s.logger.Info("blog created", "blog_id", created.ID, "slug", created.Slug, "by", id.UserID)
	return created, nil
}

func (s *Service) authorizeEdit(ctx context.Context, id shared.Identity, blogID int64) (*Blog, error) {
	current, err := s.repo.Get(ctx, blogID)
	if err != nil {
		return nil, err
	}
	ownPost := rbac.HasPermission(rbac.Role(id.Role), rbac.PermEditOwnBlogs) && current.AuthorID == id.UserID
	err = rbac.Authorize(id, rbac.Check{
		Permission: rbac.PermManageBlogs,
		Owner:      ownPost,
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// Update patches a post. Admins edit anything; editors only their own.
// A title change with no explicit slug keeps the existing slug.
func (s *Service) Update(ctx context.Context, id shared.Identity, blogID int64, in UpdateInput) (*Blog, error) {
	current, err := s.authorizeEdit(ctx, id, blogID)
	if err != nil {
		return nil, err
	}
	if in.Slug.Set() {
		slug := Slugify(in.Slug.Value())
		if slug == "" {
			return nil, fmt.Errorf("%w: slug must contain letters or digits", httpx.ErrValidation)
		}
		in.Slug = shared.PatchOf(slug)
	}
	if in.Status.Set() {
		next := in.Status.Value()
		if !next.Valid() {
			return nil, fmt.Errorf("%w: unknown blog status %q", httpx.ErrValidation, next)
		}
		if next == StatusPublished && current.Status != StatusPublished {
			if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
				return nil, err
			}
			now := s.now()
			in.PublishedAt = shared.PatchOf(&now)
		}
	}
	return s.repo.Update(ctx, blogID, in)
}

// Delete removes a post. Admin roles only.
func (s *Service) Delete(ctx context.Context, id shared.Identity, blogID int64) error {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, blogID); err != nil {
		return err
	}
	s.logger.Info("blog deleted", "blog_id", blogID, "by", id.UserID)
	return nil
}
