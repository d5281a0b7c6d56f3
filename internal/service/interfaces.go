package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"ghoplin/internal/domain"
)

// StateRepository loads and saves the sync state document.
type StateRepository interface {
	Load(ctx context.Context) (*domain.SyncState, error)
	Create(ctx context.Context) (*domain.SyncState, error)
	Save(ctx context.Context, state *domain.SyncState) error
}

type Source interface {
	ListPostsSince(ctx context.Context, blogURL, apiKey string, since time.Time) ([]domain.Post, error)
	GetBlogTitle(ctx context.Context, blogURL, apiKey string) (string, error)
}

type NoteStore interface {
	CreateNote(ctx context.Context, note domain.NewNote) (string, error)
	ListNotebookNotes(ctx context.Context, notebookID string, fields ...string) ([]domain.NoteRef, error)
}

type TagStore interface {
	ListTags(ctx context.Context, page int) ([]domain.Tag, bool, error)
	CreateTag(ctx context.Context, title string) (domain.Tag, error)
	AssignTag(ctx context.Context, tagID, noteID string) error
}

type NotebookStore interface {
	GetNotebook(ctx context.Context, id string) (*domain.Notebook, error)
	ListNotebooks(ctx context.Context) (*domain.NotebookTree, error)
}

type Publisher interface {
	Publish(ctx context.Context, event domain.NoteEvent) error
	Close() error
}
