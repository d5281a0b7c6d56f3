package joplin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ghoplin/internal/domain"
)

// ListTags returns one page of tags (pages start at 1) and whether more follow.
func (c *Client) ListTags(ctx context.Context, pageNum int) ([]domain.Tag, bool, error) {
	var resp page[tagItem]
	query := url.Values{"page": {fmt.Sprint(pageNum)}, "fields": {"id,title"}}
	if err := c.do(ctx, http.MethodGet, "tags", query, nil, &resp); err != nil {
		return nil, false, err
	}

	tags := make([]domain.Tag, 0, len(resp.Items))
	for _, item := range resp.Items {
		tags = append(tags, domain.Tag{ID: item.ID, Title: item.Title})
	}
	return tags, resp.HasMore, nil
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, title string) (domain.Tag, error) {
	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "tags", nil, createTagRequest{Title: title}, &resp); err != nil {
		return domain.Tag{}, err
	}
	if resp.ID == "" {
		return domain.Tag{}, fmt.Errorf("%w: created tag %q has no id", domain.ErrMalformedResponse, title)
	}
	return domain.Tag{ID: resp.ID, Title: title}, nil
}

// AssignTag attaches a tag to a note.
func (c *Client) AssignTag(ctx context.Context, tagID, noteID string) error {
	return c.do(ctx, http.MethodPost, "tags/"+url.PathEscape(tagID)+"/notes", nil, assignTagRequest{ID: noteID}, nil)
}
