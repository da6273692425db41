package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nkazarin/noteboard/internal/model"
	"github.com/nkazarin/noteboard/internal/repository"
)

// NewsService serves the public news feed. Articles are read-only over HTTP;
// they enter the database through fixtures or seeding, never through a
// request handler.
type NewsService struct {
	news     repository.NewsRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

// NewsWithComments bundles an article with its discussion for the detail page.
type NewsWithComments struct {
	News     *model.News
	Comments []model.Comment
}

// NewNewsService creates a NewsService.
func NewNewsService(
	news repository.NewsRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *NewsService {
	return &NewsService{news: news, comments: comments, logger: logger}
}

// List returns the latest articles, newest first.
func (s *NewsService) List(ctx context.Context, limit, offset int) ([]model.News, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.news.ListNews(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list news", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing news: %w", err)
	}
	return items, nil
}

// GetWithComments loads an article and its comments, oldest comment first.
// Comments are visible to everyone, including anonymous readers.
func (s *NewsService) GetWithComments(ctx context.Context, newsID string) (*NewsWithComments, error) {
	article, err := s.news.GetNewsByID(ctx, newsID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByNews(ctx, newsID)
	if err != nil {
		s.logger.Error("failed to list comments",
			slog.String("news", newsID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return &NewsWithComments{News: article, Comments: comments}, nil
}
