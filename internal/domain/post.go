package domain

import (
	"fmt"
	"time"
)

// Post is a blog post as returned by the source. URL is its identity.
type Post struct {
	Title       string
	HTML        string
	URL         string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
	Tags        []string
}

// Watermark returns the timestamp the blog watermark moves to once the post
// has been ingested, falling back to fallback when the post carries none.
func (p Post) Watermark(fallback time.Time) time.Time {
	if p.UpdatedAt != nil {
		return *p.UpdatedAt
	}
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return fallback
}

// Tag is a Joplin tag.
type Tag struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewNote carries the fields submitted when creating a Joplin note.
type NewNote struct {
	ID          string
	NotebookID  string
	Title       string
	Body        string
	BodyHTML    string
	SourceURL   string
	CreatedTime *time.Time
	UpdatedTime *time.Time
}

// NoteRef is a row of a filtered note listing.
type NoteRef struct {
	ID        string `json:"id"`
	SourceURL string `json:"source_url"`
}

// NoteLink formats a Joplin internal link to a note.
func NoteLink(title, noteID string) string {
	return fmt.Sprintf("[%s](:/%s)", title, noteID)
}

// NoteEvent describes a note created from a post.
type NoteEvent struct {
	BlogURL    string   `json:"blog_url"`
	BlogTitle  string   `json:"blog_title"`
	NotebookID string   `json:"notebook_id"`
	NoteID     string   `json:"note_id"`
	Title      string   `json:"title"`
	SourceURL  string   `json:"source_url"`
	Tags       []string `json:"tags"`
}
