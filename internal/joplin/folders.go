package joplin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ghoplin/internal/domain"
)

// GetNotebook fetches a single notebook. A missing id, answered either with
// 404 or with null, matches domain.ErrNotFound.
func (c *Client) GetNotebook(ctx context.Context, id string) (*domain.Notebook, error) {
	var resp *folderNode
	if err := c.do(ctx, http.MethodGet, "folders/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: folder %s", domain.ErrNotFound, id)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: folder %s has no id", domain.ErrMalformedResponse, id)
	}
	return &domain.Notebook{
		ID:        resp.ID,
		Title:     resp.Title,
		ParentID:  resp.ParentID,
		NoteCount: resp.NoteCount,
	}, nil
}

// ListNotebooks fetches the whole notebook tree.
func (c *Client) ListNotebooks(ctx context.Context) (*domain.NotebookTree, error) {
	var roots []folderNode
	if err := c.do(ctx, http.MethodGet, "folders", url.Values{"as_tree": {"1"}}, nil, &roots); err != nil {
		return nil, err
	}

	flat, err := flatten(roots)
	if err != nil {
		return nil, err
	}
	return domain.NewNotebookTree(flat)
}

// flatten turns the nested response into a pre-order list without recursion.
// A child whose parent_id disagrees with its enclosing folder is rejected.
func flatten(roots []folderNode) ([]domain.Notebook, error) {
	type frame struct {
		node     *folderNode
		parentID string
	}

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: &roots[i]})
	}

	var flat []domain.Notebook
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node

		if n.ID == "" {
			return nil, fmt.Errorf("%w: folder without id", domain.ErrMalformedResponse)
		}
		if n.ParentID != f.parentID {
			return nil, fmt.Errorf("%w: folder %s has parent_id %q but is nested under %q",
				domain.ErrMalformedResponse, n.ID, n.ParentID, f.parentID)
		}

		flat = append(flat, domain.Notebook{
			ID:        n.ID,
			Title:     n.Title,
			ParentID:  n.ParentID,
			NoteCount: n.NoteCount,
		})

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: &n.Children[i], parentID: n.ID})
		}
	}
	return flat, nil
}
