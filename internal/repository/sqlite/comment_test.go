package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/model"
)

func createTestNews(t *testing.T, db *DB, title string) *model.News {
	t.Helper()
	item := &model.News{Title: title, Text: "body"}
	if err := db.CreateNews(context.Background(), item); err != nil {
		t.Fatalf("failed to create test news: %v", err)
	}
	return item
}

func createTestComment(t *testing.T, db *DB, newsID, authorID, text string) *model.Comment {
	t.Helper()
	c := &model.Comment{NewsID: newsID, AuthorID: authorID, Text: text}
	if err := db.CreateComment(context.Background(), c); err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}
	return c
}

func TestCreateComment(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "commenter")
	news := createTestNews(t, db, "Big news")

	c := &model.Comment{NewsID: news.ID, AuthorID: author.ID, Text: "great"}
	if err := db.CreateComment(context.Background(), c); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if c.ID == "" {
		t.Error("CreateComment() did not set comment.ID")
	}

	found, err := db.GetCommentByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetCommentByID() error = %v", err)
	}
	if found.AuthorName != "commenter" {
		t.Errorf("AuthorName = %q, want joined username %q", found.AuthorName, "commenter")
	}
	if found.NewsID != news.ID {
		t.Errorf("NewsID = %q, want %q", found.NewsID, news.ID)
	}
}

func TestGetCommentByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetCommentByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetCommentByID(missing) = %v, want ErrNotFound", err)
	}
}

func TestListByNews_OldestFirst(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "commenter")
	news := createTestNews(t, db, "Big news")
	other := createTestNews(t, db, "Other news")

	first := createTestComment(t, db, news.ID, author.ID, "first")
	second := createTestComment(t, db, news.ID, author.ID, "second")
	createTestComment(t, db, other.ID, author.ID, "elsewhere")

	comments, err := db.ListByNews(context.Background(), news.ID)
	if err != nil {
		t.Fatalf("ListByNews() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len(comments) = %d, want 2", len(comments))
	}
	if comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Errorf("comments out of order: got %q then %q", comments[0].Text, comments[1].Text)
	}
}

func TestUpdateCommentText_OnlyTextChanges(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "commenter")
	news := createTestNews(t, db, "Big news")
	c := createTestComment(t, db, news.ID, author.ID, "original")

	if err := db.UpdateCommentText(context.Background(), c.ID, "edited"); err != nil {
		t.Fatalf("UpdateCommentText() error = %v", err)
	}

	found, err := db.GetCommentByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetCommentByID() error = %v", err)
	}
	if found.Text != "edited" {
		t.Errorf("Text = %q, want %q", found.Text, "edited")
	}
	if found.NewsID != news.ID || found.AuthorID != author.ID {
		t.Error("UpdateCommentText() must not touch news_id or author_id")
	}
}

func TestUpdateCommentText_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateCommentText(context.Background(), "missing", "x")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateCommentText(missing) = %v, want ErrNotFound", err)
	}
}

func TestDeleteComment(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "commenter")
	news := createTestNews(t, db, "Big news")
	c := createTestComment(t, db, news.ID, author.ID, "bye")

	if err := db.DeleteComment(context.Background(), c.ID); err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}

	n, err := db.CountByNews(context.Background(), news.ID)
	if err != nil {
		t.Fatalf("CountByNews() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountByNews() = %d, want 0", n)
	}
}

func TestCountByNews(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "commenter")
	news := createTestNews(t, db, "Big news")
	createTestComment(t, db, news.ID, author.ID, "one")
	createTestComment(t, db, news.ID, author.ID, "two")

	n, err := db.CountByNews(context.Background(), news.ID)
	if err != nil {
		t.Fatalf("CountByNews() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountByNews() = %d, want 2", n)
	}
}
