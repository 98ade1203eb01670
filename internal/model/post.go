package model

import (
	"time"
)

// ExcerptLength is the number of characters shown for a post in list views.
const ExcerptLength = 100

type Post struct {
	ID        string     `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"` // nil until the first edit
	AuthorID  string     `db:"author_id"`  // Identity that created the post, never reassigned
	Author    string     `db:"author"`     // Free-text display name
	Title     string     `db:"title"`
	Content   string     `db:"content"`
	ImageURL  *string    `db:"image_url"`
}

// PostFields are the user-editable parts of a post.
type PostFields struct {
	Title    string
	Author   string
	Content  string
	ImageURL *string
}

func (p *Post) OwnedBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}

// LastUpdated reports the time of the most recent edit, if any.
func (p *Post) LastUpdated() (time.Time, bool) {
	if p.UpdatedAt == nil {
		return time.Time{}, false
	}
	return *p.UpdatedAt, true
}

func (p *Post) Fields() PostFields {
	return PostFields{
		Title:    p.Title,
		Author:   p.Author,
		Content:  p.Content,
		ImageURL: p.ImageURL,
	}
}

// Excerpt truncates the content to n runes and marks the cut with "...".
func (p *Post) Excerpt(n int) string {
	runes := []rune(p.Content)
	if len(runes) <= n {
		return p.Content
	}
	return string(runes[:n]) + "..."
}
