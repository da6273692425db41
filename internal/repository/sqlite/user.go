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

// Compile-time check: *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new account. A duplicate username surfaces as
// apperror.Conflict so the signup form can re-render with a field error.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.GitHubID,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return apperror.Conflict("username", user.Username)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}
	return nil
}

// GetUserByID returns the user with the given internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByUsername returns the user with the given username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, github_id, created_at
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.GitHubID,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &user, nil
}

// UpsertByGitHubID inserts on first OAuth login, refreshes the username on
// later logins, and populates user.ID from the stored row either way.
//
// SQLite's ON CONFLICT ... DO UPDATE plus RETURNING does this in one
// statement: no read-then-write race between two callbacks for the same
// GitHub account.
func (db *DB) UpsertByGitHubID(ctx context.Context, user *model.User) error {
	if user.GitHubID == nil {
		return fmt.Errorf("sqlite: upserting user: github_id must be set")
	}

	newID := xid.New().String()
	now := time.Now()

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (id, username, password_hash, github_id, created_at)
		 VALUES (?, ?, '', ?, ?)
		 ON CONFLICT(github_id) DO UPDATE SET username = excluded.username
		 RETURNING id, created_at`,
		newID,
		user.Username,
		*user.GitHubID,
		now,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			// Someone already registered this username with a password account.
			return apperror.Conflict("username", user.Username)
		}
		return fmt.Errorf("sqlite: upserting user (githubID=%d): %w", *user.GitHubID, err)
	}
	return nil
}
