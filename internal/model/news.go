package model

import "time"

// News is a published news item.
//
// News items are read-only over HTTP: there are no create/edit/delete
// endpoints for them. They enter the database through fixtures or seed
// tooling, which is why News has no OwnerID — nobody owns a news item and
// the ownership guard never applies to one.
type News struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Text  string    `json:"text"` // markdown, rendered on the detail page
	Date  time.Time `json:"date"`
}
