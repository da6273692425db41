// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — plain values with no behaviour
// beyond what the domain genuinely needs. Go favours composition over inheritance.
package model

import "time"

// Note is a private text note owned by exactly one user.
//
// The slug is the note's public identifier: it appears in URLs instead of the
// numeric-looking xid, so /notes/my-shopping-list rather than /notes/cv37rs3p.
// Slugs are UNIQUE across all notes (enforced by the database and re-checked
// by the service layer so a duplicate surfaces as a form error, not a 500).
//
// AuthorID never changes after creation. Neither does the slug — editing a
// note's title does not re-derive its slug, so links to the note stay stable.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Slug      string    `json:"slug"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID implements Owned.
func (n *Note) OwnerID() string { return n.AuthorID }
