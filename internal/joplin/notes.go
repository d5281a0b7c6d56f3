package joplin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ghoplin/internal/domain"
)

// GetNoteBody returns the body of a note. A missing note, answered either
// with 404 or with null, matches domain.ErrNotFound.
func (c *Client) GetNoteBody(ctx context.Context, id string) (string, error) {
	var resp *noteBody
	err := c.do(ctx, http.MethodGet, "notes/"+url.PathEscape(id), url.Values{"fields": {"body"}}, nil, &resp)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("%w: note %s", domain.ErrNotFound, id)
	}
	if resp.Body == nil {
		return "", fmt.Errorf("%w: note %s has no body field", domain.ErrMalformedResponse, id)
	}
	return *resp.Body, nil
}

// CreateNote creates a note and returns its id.
func (c *Client) CreateNote(ctx context.Context, note domain.NewNote) (string, error) {
	req := createNoteRequest{
		ID:                note.ID,
		ParentID:          note.NotebookID,
		Title:             note.Title,
		Body:              note.Body,
		BodyHTML:          note.BodyHTML,
		SourceURL:         note.SourceURL,
		BaseURL:           baseURL(note.SourceURL),
		SourceApplication: SourceApplication,
	}
	if note.CreatedTime != nil {
		ms := note.CreatedTime.UnixMilli()
		req.UserCreatedTime = &ms
	}
	if note.UpdatedTime != nil {
		ms := note.UpdatedTime.UnixMilli()
		req.UserUpdatedTime = &ms
	}

	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "notes", nil, req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: created note has no id", domain.ErrMalformedResponse)
	}
	return resp.ID, nil
}

// UpdateNoteBody replaces the body of a note.
func (c *Client) UpdateNoteBody(ctx context.Context, id, body string) error {
	return c.do(ctx, http.MethodPut, "notes/"+url.PathEscape(id), nil, updateNoteRequest{Body: body}, nil)
}

// ListNotebookNotes lists every note of a notebook, following pagination.
func (c *Client) ListNotebookNotes(ctx context.Context, notebookID string, fields ...string) ([]domain.NoteRef, error) {
	var refs []domain.NoteRef
	for p := 1; ; p++ {
		query := url.Values{"page": {fmt.Sprint(p)}}
		if len(fields) > 0 {
			query.Set("fields", strings.Join(fields, ","))
		}

		var resp page[noteRefItem]
		if err := c.do(ctx, http.MethodGet, "folders/"+url.PathEscape(notebookID)+"/notes", query, nil, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			refs = append(refs, domain.NoteRef{ID: item.ID, SourceURL: item.SourceURL})
		}
		if !resp.HasMore {
			return refs, nil
		}
	}
}

// baseURL strips query and fragment from a post URL.
func baseURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
