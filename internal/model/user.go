package model

import "time"

// User represents a registered account.
//
// Two ways to get one:
//   - the signup form (username + password, bcrypt-hashed before storage)
//   - GitHub OAuth (GitHubID links the account; PasswordHash stays empty)
//
// WHY GitHubID *int64 (a pointer)?
// Most accounts are password accounts with no GitHub link at all. A plain
// int64 zero value would collide with "no link" in the UNIQUE index, so the
// column is nullable and the Go field mirrors that: nil means "no GitHub
// account attached".
//
// PasswordHash is never serialized — note the json:"-" tag.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // unique, shown as the author name
	PasswordHash string    `json:"-"`        // empty for OAuth-only accounts
	GitHubID     *int64    `json:"-"`        // nil unless the account came from GitHub
	CreatedAt    time.Time `json:"createdAt"`
}
