package model

import (
	"time"
)

type Comment struct {
	ID         string    `db:"id"`
	PostID     string    `db:"post_id"`
	AuthorID   string    `db:"author_id"`
	AuthorName string    `db:"author_name"` // Derived from the commenter's email
	Body       string    `db:"body"`        // May be empty when ImageURL is set
	ImageURL   *string   `db:"image_url"`
	CreatedAt  time.Time `db:"created_at"`
}
