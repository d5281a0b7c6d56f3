package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"ghoplin/internal/domain"
)

// StateKey is the fixed document key of the sync state.
const StateKey = "ghoplin-config"

// SyncStateStore keeps the sync state document in Postgres.
type SyncStateStore struct {
	db        *sqlx.DB
	txManager *TransactionManager
	key       string
	now       func() time.Time
}

func NewSyncStateStore(db *sqlx.DB) *SyncStateStore {
	return &SyncStateStore{
		db:        db,
		txManager: NewTransactionManager(db),
		key:       StateKey,
		now:       time.Now,
	}
}

func (s *SyncStateStore) Load(ctx context.Context) (*domain.SyncState, error) {
	var body string
	err := s.db.GetContext(ctx, &body, `SELECT body FROM sync_state_documents WHERE key = $1`, s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	return domain.DecodeState(body)
}

func (s *SyncStateStore) Create(ctx context.Context) (*domain.SyncState, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_state_documents (key, body) VALUES ($1, '')`,
		s.key,
	)
	if err != nil {
		return nil, fmt.Errorf("insert state: %w", err)
	}
	return &domain.SyncState{}, nil
}

// Save stamps LastRun, overwrites the document and appends a history row in
// one transaction.
func (s *SyncStateStore) Save(ctx context.Context, state *domain.SyncState) error {
	state.LastRun = s.now().UTC()

	body, err := domain.EncodeState(state)
	if err != nil {
		return err
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, s.db)

		query := `
			INSERT INTO sync_state_documents (key, body, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET
				body = EXCLUDED.body,
				updated_at = EXCLUDED.updated_at`
		if _, err := exec.ExecContext(txCtx, query, s.key, body, state.LastRun); err != nil {
			return fmt.Errorf("upsert state: %w", err)
		}

		if _, err := exec.ExecContext(txCtx,
			`INSERT INTO sync_state_history (key, body, saved_at) VALUES ($1, $2, $3)`,
			s.key, body, state.LastRun,
		); err != nil {
			return fmt.Errorf("insert state history: %w", err)
		}

		return nil
	})
}
