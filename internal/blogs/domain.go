// Package blogs manages the internal blog: posts, slugs and the publish
// workflow.
package blogs

import "time"

// Status is the post workflow state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known post status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Blog is a single post. Slugs are unique across all posts.
type Blog struct {
	ID          int64
	Title       string
	Slug        string
	Content     string
	Excerpt     *string
	Status      Status
	AuthorID    int64
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for read payloads.
	AuthorName string
}
