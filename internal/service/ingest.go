package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"ghoplin/internal/domain"
)

// NoteIngestor turns a post into a Joplin note.
type NoteIngestor struct {
	notes           NoteStore
	settleDelay     time.Duration
	convertMarkdown bool
	logger          *slog.Logger
}

func NewNoteIngestor(notes NoteStore, settleDelay time.Duration, convertMarkdown bool, logger *slog.Logger) *NoteIngestor {
	return &NoteIngestor{
		notes:           notes,
		settleDelay:     settleDelay,
		convertMarkdown: convertMarkdown,
		logger:          logger,
	}
}

// CreateNote creates the note and returns its id. When the create call fails
// in transport the note may still have been stored, so after settleDelay the
// notebook is searched for a note with the post's URL before giving up.
func (i *NoteIngestor) CreateNote(ctx context.Context, notebookID string, post domain.Post) (string, error) {
	note := domain.NewNote{
		NotebookID:  notebookID,
		Title:       post.Title,
		SourceURL:   post.URL,
		CreatedTime: post.PublishedAt,
		UpdatedTime: post.PublishedAt,
	}
	i.setBody(&note, post)

	noteID, err := i.notes.CreateNote(ctx, note)
	if err == nil {
		return noteID, nil
	}
	if !errors.Is(err, domain.ErrTransport) {
		return "", fmt.Errorf("%w: %w", domain.ErrNoteCreationFailed, err)
	}

	logger := i.logger.With("post_title", post.Title, "source_url", post.URL)
	logger.Warn("note creation got no answer, checking whether it was stored", "error", err)

	if serr := sleep(ctx, i.settleDelay); serr != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNoteCreationFailed, err)
	}

	if post.URL == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrNoteCreationFailed, err)
	}

	refs, lerr := i.notes.ListNotebookNotes(ctx, notebookID, "source_url", "id")
	if lerr != nil {
		return "", fmt.Errorf("%w: %w (lookup failed: %v)", domain.ErrNoteCreationFailed, err, lerr)
	}

	for _, ref := range refs {
		if ref.SourceURL == post.URL {
			logger.Warn("found stored note anyway", "note_id", ref.ID)
			return ref.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %w", domain.ErrNoteCreationFailed, err)
}

// setBody sends HTML for Joplin to convert, or Markdown converted locally.
func (i *NoteIngestor) setBody(note *domain.NewNote, post domain.Post) {
	if !i.convertMarkdown {
		note.BodyHTML = post.HTML
		return
	}

	markdown, err := htmltomarkdown.ConvertString(post.HTML)
	if err != nil {
		i.logger.Warn("markdown conversion failed, sending html", "post_title", post.Title, "error", err)
		note.BodyHTML = post.HTML
		return
	}
	note.Body = strings.TrimSpace(markdown)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
