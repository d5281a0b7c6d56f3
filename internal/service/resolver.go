package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ghoplin/internal/domain"
)

// NotebookResolver finds a notebook by id, falling back to its title.
type NotebookResolver struct {
	notebooks NotebookStore
	logger    *slog.Logger
}

func NewNotebookResolver(notebooks NotebookStore, logger *slog.Logger) *NotebookResolver {
	return &NotebookResolver{notebooks: notebooks, logger: logger}
}

// Resolve tries identifier as an id first. Only a not-found answer triggers
// the title search over the whole tree; the first pre-order match wins.
func (r *NotebookResolver) Resolve(ctx context.Context, identifier string) (*domain.Notebook, error) {
	r.logger.Debug("looking up notebook by id", "notebook", identifier)

	nb, err := r.notebooks.GetNotebook(ctx, identifier)
	if err == nil {
		return nb, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get notebook %q: %w", identifier, err)
	}

	r.logger.Debug("no notebook with that id, searching by title", "notebook", identifier)

	tree, err := r.notebooks.ListNotebooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}

	nb, ok := tree.FindByTitle(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: no notebook with title or id %q", domain.ErrNotebookNotFound, identifier)
	}
	return nb, nil
}
