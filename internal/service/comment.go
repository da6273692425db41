package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/model"
	"github.com/nkazarin/noteboard/internal/moderation"
	"github.com/nkazarin/noteboard/internal/repository"
)

// MaxCommentLength caps the comment body.
const MaxCommentLength = 3000

// CommentService handles comments under news articles. Every submitted text
// runs through the moderation filter before it is stored; edit and delete go
// through the same owner-or-404 guard as notes.
type CommentService struct {
	comments repository.CommentRepository
	news     repository.NewsRepository
	filter   *moderation.Filter
	logger   *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	news repository.NewsRepository,
	filter *moderation.Filter,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{comments: comments, news: news, filter: filter, logger: logger}
}

// Create validates, moderates and stores a comment under the given article.
// A banned word anywhere in the text rejects the whole comment with a
// field-level error; nothing is stored and the article's comment list is
// unchanged.
func (s *CommentService) Create(ctx context.Context, newsID, authorID, text string) (*model.Comment, error) {
	if authorID == "" {
		return nil, apperror.Unauthorized("login required")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}
	if err := s.filter.Check(text); err != nil {
		return nil, err
	}

	// The article must exist; commenting on a missing article is a 404, not
	// an orphaned row.
	if _, err := s.news.GetNewsByID(ctx, newsID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		NewsID:   newsID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("news", newsID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("news", newsID),
		slog.String("author", authorID),
	)
	return comment, nil
}

// GetForUser returns the comment if userID is its author; anyone else gets
// NotFound.
func (s *CommentService) GetForUser(ctx context.Context, commentID, userID string) (*model.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(comment, "comment", commentID, userID); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateText changes a comment's text. Only the text is mutable: the author
// and the article binding stay fixed. The replacement text runs through the
// moderation filter like a fresh submission.
func (s *CommentService) UpdateText(ctx context.Context, commentID, userID, text string) (*model.Comment, error) {
	comment, err := s.GetForUser(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}
	if err := s.filter.Check(text); err != nil {
		return nil, err
	}

	if err := s.comments.UpdateCommentText(ctx, commentID, text); err != nil {
		s.logger.Error("failed to update comment",
			slog.String("id", commentID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating comment: %w", err)
	}

	comment.Text = text
	s.logger.Info("comment updated", slog.String("id", commentID))
	return comment, nil
}

// Delete removes a comment. Only the author may delete; everyone else gets
// NotFound and the comment stays.
func (s *CommentService) Delete(ctx context.Context, commentID, userID string) error {
	comment, err := s.GetForUser(ctx, commentID, userID)
	if err != nil {
		return err
	}

	if err := s.comments.DeleteComment(ctx, comment.ID); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		slog.String("id", commentID),
		slog.String("news", comment.NewsID),
	)
	return nil
}
