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

// Compile-time check: *DB implements repository.NewsRepository.
var _ repository.NewsRepository = (*DB)(nil)

// CreateNews inserts a news item. Only fixtures and seed tooling call this —
// the HTTP surface for news is read-only.
func (db *DB) CreateNews(ctx context.Context, item *model.News) error {
	item.ID = xid.New().String()
	if item.Date.IsZero() {
		item.Date = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO news (id, title, text, date) VALUES (?, ?, ?, ?)`,
		item.ID,
		item.Title,
		item.Text,
		item.Date,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating news item: %w", err)
	}
	return nil
}

// GetNewsByID returns a single news item.
func (db *DB) GetNewsByID(ctx context.Context, id string) (*model.News, error) {
	var item model.News
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, text, date FROM news WHERE id = ?`,
		id,
	).Scan(&item.ID, &item.Title, &item.Text, &item.Date)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("news", id)
		}
		return nil, fmt.Errorf("sqlite: getting news %s: %w", id, err)
	}
	return &item, nil
}

// ListNews returns news items, newest first.
func (db *DB) ListNews(ctx context.Context, opts repository.ListOptions) ([]model.News, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, text, date
		 FROM news
		 ORDER BY date DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing news: %w", err)
	}
	defer rows.Close()

	items := make([]model.News, 0, limit)
	for rows.Next() {
		var n model.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &n.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning news row: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating news: %w", err)
	}
	return items, nil
}
