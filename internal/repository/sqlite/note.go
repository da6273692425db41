package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/model"
	"github.com/nkazarin/noteboard/internal/repository"
)

// Compile-time check: *DB implements repository.NoteRepository.
var _ repository.NoteRepository = (*DB)(nil)

// CreateNote inserts a new note.
//
// The slug column carries a UNIQUE constraint — the service checks SlugExists
// first to produce a friendly form error, but this is the backstop: if two
// requests race past that check, exactly one INSERT wins and the loser gets
// apperror.Conflict, never a second note.
func (db *DB) CreateNote(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notes (id, title, text, slug, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.Title,
		note.Text,
		note.Slug,
		note.AuthorID,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "notes.slug") {
			return apperror.Conflict("note slug", note.Slug)
		}
		return fmt.Errorf("sqlite: creating note: %w", err)
	}
	return nil
}

// GetBySlug returns the note with the given slug, regardless of author —
// whether the caller may see it is the service layer's decision.
func (db *DB) GetBySlug(ctx context.Context, slug string) (*model.Note, error) {
	var note model.Note
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, text, slug, author_id, created_at, updated_at
		 FROM notes
		 WHERE slug = ?`,
		slug,
	).Scan(
		&note.ID,
		&note.Title,
		&note.Text,
		&note.Slug,
		&note.AuthorID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", slug)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", slug, err)
	}
	return &note, nil
}

// SlugExists reports whether any note already uses the slug.
func (db *DB) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE slug = ?`, slug,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking slug %s: %w", slug, err)
	}
	return n > 0, nil
}

// ListByAuthor returns the author's notes, newest first. Other users' notes
// are filtered out at the SQL level — the list page never even loads them.
func (db *DB) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Note, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, text, slug, author_id, created_at, updated_at
		 FROM notes
		 WHERE author_id = ?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		authorID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0, limit)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID,
			&n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}
	return notes, nil
}

// UpdateNote writes title and text. Slug and author are immutable after
// creation, so they are deliberately absent from the SET list.
func (db *DB) UpdateNote(ctx context.Context, note *model.Note) error {
	note.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE notes
		 SET title = ?, text = ?, updated_at = ?
		 WHERE id = ?`,
		note.Title,
		note.Text,
		note.UpdatedAt,
		note.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("note", note.ID)
	}
	return nil
}

// DeleteNote removes a note by ID.
func (db *DB) DeleteNote(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("note", id)
	}
	return nil
}
