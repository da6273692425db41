// Package service contains the business logic layer: validation, the
// ownership guard, slug assignment and comment moderation live here, away
// from HTTP concerns.
//
// Services accept primitives and return domain errors (internal/apperror);
// handlers translate those into redirects, re-rendered forms and 404 pages.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/model"
	"github.com/nkazarin/noteboard/internal/repository"
)

// Validation limits, referenced in error messages.
const (
	MaxNoteTitleLength = 100
	MaxNoteTextLength  = 100000
	DefaultListLimit   = 20
	MaxListLimit       = 100
)

// NoteService handles the note lifecycle: slug assignment on create,
// owner-or-404 on every single-note operation.
type NoteService struct {
	repo   repository.NoteRepository
	logger *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(repo repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

// Create validates and saves a new note for the given author.
//
// SLUG ASSIGNMENT:
// If rawSlug is empty, the slug is derived from the title by transliteration
// and slugification — "Заголовок" becomes "zagolovok", spaces become hyphens,
// everything is lowercased. A supplied slug goes through the same normalizer,
// so whatever the user types ends up URL-safe.
//
// If the resulting slug is already taken, the write is rejected with a
// field-level validation error. It is never silently renamed and never
// treated as an update: submitting the identical form twice yields exactly
// one note and a form error on the second attempt.
func (s *NoteService) Create(ctx context.Context, authorID, title, text, rawSlug string) (*model.Note, error) {
	if authorID == "" {
		return nil, apperror.Unauthorized("login required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxNoteTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxNoteTitleLength))
	}
	if len(text) > MaxNoteTextLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("text must be %d characters or less", MaxNoteTextLength))
	}

	noteSlug := slug.Make(rawSlug)
	if noteSlug == "" {
		noteSlug = slug.Make(title)
	}
	if noteSlug == "" {
		// A title of pure punctuation slugifies to nothing.
		return nil, apperror.ValidationFailed("title", "title must contain letters or digits")
	}

	// Check-then-insert gives the user a form error instead of a 500; the
	// UNIQUE constraint in the repository is the backstop for races.
	taken, err := s.repo.SlugExists(ctx, noteSlug)
	if err != nil {
		return nil, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return nil, slugTakenError(noteSlug)
	}

	note := &model.Note{
		Title:    title,
		Text:     strings.TrimSpace(text),
		Slug:     noteSlug,
		AuthorID: authorID,
	}

	if err := s.repo.CreateNote(ctx, note); err != nil {
		// Another request may have claimed the slug between the check and the
		// insert; surface that race as the same form error.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, slugTakenError(noteSlug)
		}
		s.logger.Error("failed to create note",
			slog.String("slug", noteSlug),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Info("note created",
		slog.String("id", note.ID),
		slog.String("slug", note.Slug),
		slog.String("author", authorID),
	)
	return note, nil
}

// GetForUser returns the note with the given slug if userID is its author;
// anyone else — anonymous or not — gets NotFound.
func (s *NoteService) GetForUser(ctx context.Context, noteSlug, userID string) (*model.Note, error) {
	note, err := s.repo.GetBySlug(ctx, noteSlug)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(note, "note", noteSlug, userID); err != nil {
		return nil, err
	}
	return note, nil
}

// ListForUser returns the user's own notes, newest first. Other users' notes
// are never loaded.
func (s *NoteService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]model.Note, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	notes, err := s.repo.ListByAuthor(ctx, userID, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list notes", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// Update changes a note's title and text. The slug and the author never
// change. Only the author may update; everyone else gets NotFound.
func (s *NoteService) Update(ctx context.Context, noteSlug, userID, title, text string) (*model.Note, error) {
	note, err := s.GetForUser(ctx, noteSlug, userID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxNoteTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxNoteTitleLength))
	}
	if len(text) > MaxNoteTextLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("text must be %d characters or less", MaxNoteTextLength))
	}

	note.Title = title
	note.Text = strings.TrimSpace(text)

	if err := s.repo.UpdateNote(ctx, note); err != nil {
		s.logger.Error("failed to update note",
			slog.String("slug", noteSlug),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating note: %w", err)
	}

	s.logger.Info("note updated", slog.String("slug", note.Slug))
	return note, nil
}

// Delete removes a note. Only the author may delete; everyone else gets
// NotFound and the note stays.
func (s *NoteService) Delete(ctx context.Context, noteSlug, userID string) error {
	note, err := s.GetForUser(ctx, noteSlug, userID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteNote(ctx, note.ID); err != nil {
		return err
	}

	s.logger.Info("note deleted", slog.String("slug", noteSlug))
	return nil
}

// DeriveSlug exposes the title→slug transform (used by handlers to preview
// the slug and by tests to assert the derivation).
func DeriveSlug(title string) string {
	return slug.Make(title)
}

func slugTakenError(noteSlug string) error {
	return apperror.ValidationFailed("slug",
		fmt.Sprintf("%s - this slug is already in use, pick a unique value", noteSlug))
}
