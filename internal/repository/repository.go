// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation; tests
// substitute hand-written mocks.
//
// Method names carry the entity (CreateNote, not Create) because one
// concrete type — sqlite.DB — implements all four interfaces.
package repository

import (
	"context"

	"github.com/nkazarin/noteboard/internal/model"
)

// ListOptions bounds list queries so no caller can fetch the whole table.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository stores accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertByGitHubID inserts the user on first OAuth login and refreshes the
	// username on subsequent logins. user.ID is populated either way.
	UpsertByGitHubID(ctx context.Context, user *model.User) error
}

// NoteRepository stores private notes. Ownership filtering happens here for
// list queries; single-note authorization is the service layer's job.
type NoteRepository interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetBySlug(ctx context.Context, slug string) (*model.Note, error)
	// SlugExists reports whether any note already uses the slug. Used by the
	// service to turn a would-be UNIQUE violation into a form error up front.
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, id string) error
}

// NewsRepository stores news items. CreateNews exists for fixtures and seed
// tooling only — no HTTP route writes news.
type NewsRepository interface {
	CreateNews(ctx context.Context, item *model.News) error
	GetNewsByID(ctx context.Context, id string) (*model.News, error)
	ListNews(ctx context.Context, opts ListOptions) ([]model.News, error)
}

// CommentRepository stores comments on news items.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	ListByNews(ctx context.Context, newsID string) ([]model.Comment, error)
	// UpdateCommentText writes the text column only — news and author are immutable.
	UpdateCommentText(ctx context.Context, id, text string) error
	DeleteComment(ctx context.Context, id string) error
	CountByNews(ctx context.Context, newsID string) (int, error)
}
