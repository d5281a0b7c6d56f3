package domain

import "time"

// SyncState is the document persisted in the reserved state note.
type SyncState struct {
	Blogs   []BlogState `json:"blogs"`
	LastRun time.Time   `json:"lastRun"`
}

// BlogState tracks one Ghost blog. Notebook is referenced by id only.
type BlogState struct {
	BlogURL         string    `json:"blogUrl"`
	APIKey          string    `json:"apiKey"`
	NotebookID      string    `json:"notebookId"`
	AutoTags        []string  `json:"autoTags"`
	LastFetch       time.Time `json:"lastFetch"`
	LastFetchedPost string    `json:"lastFetchedPost"`
	NotesTotal      int       `json:"notesTotal"`
	Title           string    `json:"title"`
	Disabled        bool      `json:"disabled"`
}

// Advance moves the watermark forward. Older timestamps are ignored.
func (b *BlogState) Advance(t time.Time) {
	if t.After(b.LastFetch) {
		b.LastFetch = t
	}
}

// Enabled returns the blogs that take part in a sync run, keeping their
// position in the state so callers can mutate them in place.
func (s *SyncState) Enabled() []*BlogState {
	var enabled []*BlogState
	for i := range s.Blogs {
		if !s.Blogs[i].Disabled {
			enabled = append(enabled, &s.Blogs[i])
		}
	}
	return enabled
}

// SyncStats holds statistics about a sync operation.
type SyncStats struct {
	Blogs     int
	Skipped   int
	Failed    int
	Fetched   int
	New       int
	Errors    int
	TagErrors int
	Published int
	Duration  time.Duration
}
