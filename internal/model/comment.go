package model

import "time"

// Comment is a reader's comment on a news item.
//
// NewsID and AuthorID are fixed at creation: editing a comment can change its
// text and nothing else. The service layer enforces this by only ever writing
// the text field on update.
//
// AuthorName is not a column of its own — it is joined in from the users
// table on reads so templates can show who wrote the comment without a
// second query per comment.
type Comment struct {
	ID         string    `json:"id"`
	NewsID     string    `json:"newsId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"` // joined from users, not stored
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwnerID implements Owned.
func (c *Comment) OwnerID() string { return c.AuthorID }
