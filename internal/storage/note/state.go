package note

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ghoplin/internal/domain"
)

const (
	// ReservedNoteID is the fixed id of the note holding the sync state.
	ReservedNoteID = "00000000000031337000000000000001"
	reservedTitle  = "Ghoplin Config"
)

// NoteBodyStore is the part of the Joplin API the state store needs.
type NoteBodyStore interface {
	GetNoteBody(ctx context.Context, id string) (string, error)
	CreateNote(ctx context.Context, note domain.NewNote) (string, error)
	UpdateNoteBody(ctx context.Context, id, body string) error
}

// StateStore keeps the sync state as JSON in the reserved note.
type StateStore struct {
	notes NoteBodyStore
	now   func() time.Time
}

func NewStateStore(notes NoteBodyStore) *StateStore {
	return &StateStore{notes: notes, now: time.Now}
}

// Load returns domain.ErrConfigNotFound when the reserved note does not exist.
// A note that exists but was never saved yields an empty state.
func (s *StateStore) Load(ctx context.Context) (*domain.SyncState, error) {
	body, err := s.notes.GetNoteBody(ctx, ReservedNoteID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read state note: %w", err)
	}

	return domain.DecodeState(body)
}

func (s *StateStore) Create(ctx context.Context) (*domain.SyncState, error) {
	_, err := s.notes.CreateNote(ctx, domain.NewNote{
		ID:    ReservedNoteID,
		Title: reservedTitle,
	})
	if err != nil {
		return nil, fmt.Errorf("create state note: %w", err)
	}
	return &domain.SyncState{}, nil
}

// Save stamps LastRun and overwrites the reserved note.
func (s *StateStore) Save(ctx context.Context, state *domain.SyncState) error {
	state.LastRun = s.now().UTC()

	body, err := domain.EncodeState(state)
	if err != nil {
		return err
	}

	if err := s.notes.UpdateNoteBody(ctx, ReservedNoteID, body); err != nil {
		return fmt.Errorf("write state note: %w", err)
	}
	return nil
}
