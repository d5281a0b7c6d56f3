package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlogState_AdvanceNeverMovesBackward(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	blog := BlogState{LastFetch: start}

	blog.Advance(start.Add(-time.Hour))
	assert.Equal(t, start, blog.LastFetch)

	blog.Advance(start.Add(time.Hour))
	assert.Equal(t, start.Add(time.Hour), blog.LastFetch)
}

func TestSyncState_EnabledSkipsDisabledAndAliases(t *testing.T) {
	state := SyncState{Blogs: []BlogState{
		{BlogURL: "https://a.example"},
		{BlogURL: "https://b.example", Disabled: true},
		{BlogURL: "https://c.example"},
	}}

	enabled := state.Enabled()

	assert.Len(t, enabled, 2)
	enabled[1].NotesTotal = 7
	assert.Equal(t, 7, state.Blogs[2].NotesTotal)
}

func TestPost_Watermark(t *testing.T) {
	fallback := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	published := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, fallback, Post{}.Watermark(fallback))
	assert.Equal(t, published, Post{PublishedAt: &published}.Watermark(fallback))
	assert.Equal(t, updated, Post{PublishedAt: &published, UpdatedAt: &updated}.Watermark(fallback))
}

func TestNoteLink(t *testing.T) {
	assert.Equal(t, "[Hello](:/abc123)", NoteLink("Hello", "abc123"))
}
