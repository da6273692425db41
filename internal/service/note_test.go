package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/model"
	"github.com/nkazarin/noteboard/internal/repository"
)

// =========================================================================
// MOCK REPOSITORY
// =========================================================================
//
// The mock implements repository.NoteRepository in memory so these tests
// exercise only the service logic. Uniqueness of the slug is enforced here
// too, because the service's duplicate handling depends on it.

type mockNoteRepo struct {
	notes  map[string]*model.Note // keyed by slug
	nextID int
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[string]*model.Note)}
}

func (m *mockNoteRepo) CreateNote(_ context.Context, note *model.Note) error {
	if _, ok := m.notes[note.Slug]; ok {
		return apperror.Conflict("note", note.Slug)
	}
	m.nextID++
	note.ID = fmt.Sprintf("note-%d", m.nextID)
	stored := *note
	m.notes[note.Slug] = &stored
	return nil
}

func (m *mockNoteRepo) GetBySlug(_ context.Context, slug string) (*model.Note, error) {
	note, ok := m.notes[slug]
	if !ok {
		return nil, apperror.NotFound("note", slug)
	}
	result := *note
	return &result, nil
}

func (m *mockNoteRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	_, ok := m.notes[slug]
	return ok, nil
}

func (m *mockNoteRepo) ListByAuthor(_ context.Context, authorID string, opts repository.ListOptions) ([]model.Note, error) {
	result := make([]model.Note, 0)
	for _, n := range m.notes {
		if n.AuthorID == authorID {
			result = append(result, *n)
		}
	}
	if opts.Offset >= len(result) {
		return []model.Note{}, nil
	}
	result = result[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (m *mockNoteRepo) UpdateNote(_ context.Context, note *model.Note) error {
	existing, ok := m.notes[note.Slug]
	if !ok {
		return apperror.NotFound("note", note.Slug)
	}
	existing.Title = note.Title
	existing.Text = note.Text
	return nil
}

func (m *mockNoteRepo) DeleteNote(_ context.Context, id string) error {
	for slug, n := range m.notes {
		if n.ID == id {
			delete(m.notes, slug)
			return nil
		}
	}
	return apperror.NotFound("note", id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestNoteService(t *testing.T) (*NoteService, *mockNoteRepo) {
	t.Helper()
	repo := newMockNoteRepo()
	return NewNoteService(repo, testLogger()), repo
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestNoteCreate_Success(t *testing.T) {
	svc, _ := newTestNoteService(t)

	note, err := svc.Create(context.Background(), "user-a", "My Note", "some text", "my-note")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if note.ID == "" {
		t.Error("expected note to have an ID")
	}
	if note.Slug != "my-note" {
		t.Errorf("Slug = %q, want %q", note.Slug, "my-note")
	}
	if note.AuthorID != "user-a" {
		t.Errorf("AuthorID = %q, want %q", note.AuthorID, "user-a")
	}
}

func TestNoteCreate_DerivesSlugFromTitle(t *testing.T) {
	svc, _ := newTestNoteService(t)

	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Тестовая заметка", "testovaia-zametka"},
		{"Заголовок", "zagolovok"},
	}

	for _, tt := range tests {
		note, err := svc.Create(context.Background(), "user-a", tt.title, "text", "")
		if err != nil {
			t.Fatalf("Create(%q) error = %v", tt.title, err)
		}
		if note.Slug != tt.want {
			t.Errorf("Create(%q) slug = %q, want %q", tt.title, note.Slug, tt.want)
		}
	}
}

func TestNoteCreate_NormalizesSuppliedSlug(t *testing.T) {
	svc, _ := newTestNoteService(t)

	note, err := svc.Create(context.Background(), "user-a", "title", "text", "  My Slug  ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if note.Slug != "my-slug" {
		t.Errorf("Slug = %q, want %q", note.Slug, "my-slug")
	}
}

func TestNoteCreate_DuplicateSlugRejectedOnce(t *testing.T) {
	svc, repo := newTestNoteService(t)

	if _, err := svc.Create(context.Background(), "user-a", "Same", "first", "same"); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	// The identical submission again: must fail with a field error on the
	// slug, and must not create a second note or overwrite the first.
	_, err := svc.Create(context.Background(), "user-a", "Same", "second", "same")
	if err == nil {
		t.Fatal("duplicate Create() should fail")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	if got := apperror.FieldOf(err); got != "slug" {
		t.Errorf("field = %q, want %q", got, "slug")
	}

	if len(repo.notes) != 1 {
		t.Errorf("stored notes = %d, want exactly 1", len(repo.notes))
	}
	if repo.notes["same"].Text != "first" {
		t.Error("duplicate submission must not overwrite the original")
	}
}

func TestNoteCreate_AnonymousRejected(t *testing.T) {
	svc, _ := newTestNoteService(t)

	_, err := svc.Create(context.Background(), "", "title", "text", "")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestNoteCreate_EmptyTitle(t *testing.T) {
	svc, _ := newTestNoteService(t)

	_, err := svc.Create(context.Background(), "user-a", "   ", "text", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestNoteCreate_TitleTooLong(t *testing.T) {
	svc, _ := newTestNoteService(t)

	_, err := svc.Create(context.Background(), "user-a", strings.Repeat("a", MaxNoteTitleLength+1), "text", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestNoteCreate_UnslugifiableTitle(t *testing.T) {
	svc, _ := newTestNoteService(t)

	_, err := svc.Create(context.Background(), "user-a", "!!!", "text", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// OWNERSHIP TESTS
// =========================================================================
//
// Every non-owner outcome is NotFound. There is deliberately no "forbidden"
// case to assert anywhere in this file.

func TestNoteGetForUser_Owner(t *testing.T) {
	svc, _ := newTestNoteService(t)

	created, _ := svc.Create(context.Background(), "user-a", "mine", "text", "mine")

	found, err := svc.GetForUser(context.Background(), created.Slug, "user-a")
	if err != nil {
		t.Fatalf("GetForUser() error = %v", err)
	}
	if found.Title != "mine" {
		t.Errorf("Title = %q, want %q", found.Title, "mine")
	}
}

func TestNoteGetForUser_OtherUserGetsNotFound(t *testing.T) {
	svc, _ := newTestNoteService(t)

	created, _ := svc.Create(context.Background(), "user-a", "mine", "text", "mine")

	_, err := svc.GetForUser(context.Background(), created.Slug, "user-b")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestNoteGetForUser_AnonymousGetsNotFound(t *testing.T) {
	svc, _ := newTestNoteService(t)

	created, _ := svc.Create(context.Background(), "user-a", "mine", "text", "mine")

	_, err := svc.GetForUser(context.Background(), created.Slug, "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestNoteGetForUser_MissingSlug(t *testing.T) {
	svc, _ := newTestNoteService(t)

	_, err := svc.GetForUser(context.Background(), "no-such-note", "user-a")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestNoteListForUser_OnlyOwnNotes(t *testing.T) {
	svc, _ := newTestNoteService(t)

	svc.Create(context.Background(), "user-a", "a1", "text", "a1")
	svc.Create(context.Background(), "user-a", "a2", "text", "a2")
	svc.Create(context.Background(), "user-b", "b1", "text", "b1")

	notes, err := svc.ListForUser(context.Background(), "user-a", 0, 0)
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("len(notes) = %d, want 2", len(notes))
	}
	for _, n := range notes {
		if n.AuthorID != "user-a" {
			t.Errorf("listed note %q belongs to %q", n.Slug, n.AuthorID)
		}
	}
}

func TestNoteListForUser_ClampsBadValues(t *testing.T) {
	svc, _ := newTestNoteService(t)

	if _, err := svc.ListForUser(context.Background(), "user-a", -5, -10); err != nil {
		t.Fatalf("ListForUser() should handle negative values, got %v", err)
	}
}

// =========================================================================
// UPDATE / DELETE TESTS
// =========================================================================

func TestNoteUpdate_OwnerChangesTitleAndText(t *testing.T) {
	svc, _ := newTestNoteService(t)

	created, _ := svc.Create(context.Background(), "user-a", "old", "old text", "fixed-slug")

	updated, err := svc.Update(context.Background(), created.Slug, "user-a", "new", "new text")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "new" || updated.Text != "new text" {
		t.Errorf("updated = %q/%q, want new/new text", updated.Title, updated.Text)
	}
	if updated.Slug != "fixed-slug" {
		t.Errorf("Slug = %q — the slug must never change on update", updated.Slug)
	}
}

func TestNoteUpdate_OtherUserGetsNotFound(t *testing.T) {
	svc, repo := newTestNoteService(t)

	created, _ := svc.Create(context.Background(), "user-a", "mine", "original", "mine")

	_, err := svc.Update(context.Background(), created.Slug, "user-b", "hacked", "hacked")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if repo.notes["mine"].Text != "original" {
		t.Error("failed update must leave the note unchanged")
	}
}

func TestNoteDelete_Owner(t *testing.T) {
	svc, _ := newTestNoteService(t)

	created, _ := svc.Create(context.Background(), "user-a", "gone soon", "text", "gone-soon")

	if err := svc.Delete(context.Background(), created.Slug, "user-a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := svc.GetForUser(context.Background(), created.Slug, "user-a")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("after delete: error = %v, want ErrNotFound", err)
	}
}

func TestNoteDelete_OtherUserGetsNotFoundAndNoteSurvives(t *testing.T) {
	svc, repo := newTestNoteService(t)

	created, _ := svc.Create(context.Background(), "user-a", "keep", "text", "keep")

	err := svc.Delete(context.Background(), created.Slug, "user-b")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if _, ok := repo.notes["keep"]; !ok {
		t.Error("note must survive a non-owner delete attempt")
	}
}

func TestNoteDelete_AnonymousGetsNotFoundAndNoteSurvives(t *testing.T) {
	svc, repo := newTestNoteService(t)

	created, _ := svc.Create(context.Background(), "user-a", "keep", "text", "keep")

	err := svc.Delete(context.Background(), created.Slug, "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if len(repo.notes) != 1 {
		t.Error("note must survive an anonymous delete attempt")
	}
}

func TestDeriveSlug(t *testing.T) {
	if got := DeriveSlug("Москва слезам не верит"); got != "moskva-slezam-ne-verit" {
		t.Errorf("DeriveSlug() = %q", got)
	}
}
