package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// documentRowID is the id of the single row holding the catalog.
const documentRowID = 1

// DocumentStore keeps the catalog document as jsonb in one row of the
// app data table. The revision column guards concurrent writers.
type DocumentStore struct {
	pool   *pgxpool.Pool
	table  *TableName
	txm    repositories.TransactionManager
	logger *slog.Logger
}

// NewDocumentStore creates a Postgres document store
func NewDocumentStore(config *RepositoryConfig) *DocumentStore {
	return &DocumentStore{
		pool:   config.Pool,
		table:  config.Table,
		txm:    NewTransactionManager(config.Pool, config.Logger),
		logger: config.Logger,
	}
}

// EnsureSchema creates the schema and table if missing. Tables created
// before revisions existed get the column added in place.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, s.table.QuotedSchema()),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id integer PRIMARY KEY,
				payload jsonb NOT NULL,
				revision bigint NOT NULL DEFAULT 0,
				updated_at timestamptz NOT NULL DEFAULT NOW()
			)
		`, s.table.Quoted()),
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS revision bigint NOT NULL DEFAULT 0`, s.table.Quoted()),
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS updated_at timestamptz NOT NULL DEFAULT NOW()`, s.table.Quoted()),
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure app data table: %w", err)
		}
	}
	s.logger.Debug("app data table ready", "table", s.table.Quoted())
	return nil
}

// Load implements repositories.DocumentStore.
func (s *DocumentStore) Load(ctx context.Context) (*catalog.Document, int64, error) {
	query := fmt.Sprintf(`SELECT payload, revision FROM %s WHERE id = $1`, s.table.Quoted())

	var payload []byte
	var revision int64
	err := GetExecutor(ctx, s.pool).QueryRow(ctx, query, documentRowID).Scan(&payload, &revision)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("load app data: %w", err)
	}

	var doc catalog.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode app data: %w", err)
	}
	return &doc, revision, nil
}

// Save implements repositories.DocumentStore. The row is locked for the
// revision check so two writers cannot both pass it.
func (s *DocumentStore) Save(ctx context.Context, doc *catalog.Document, expected int64) (int64, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("encode app data: %w", err)
	}

	next := expected + 1
	err = s.txm.ExecTx(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, s.pool)

		var current int64
		lock := fmt.Sprintf(`SELECT revision FROM %s WHERE id = $1 FOR UPDATE`, s.table.Quoted())
		err := exec.QueryRow(txCtx, lock, documentRowID).Scan(&current)
		if err != nil && !IsPgNoRowsError(err) {
			return fmt.Errorf("lock app data: %w", err)
		}

		if IsPgNoRowsError(err) {
			if expected != 0 {
				return repositories.ErrRevisionConflict
			}
			// A concurrent first save wins the primary key; ours is a conflict
			insert := fmt.Sprintf(`
				INSERT INTO %s (id, payload, revision, updated_at)
				VALUES ($1, $2::jsonb, $3, NOW())
			`, s.table.Quoted())
			_, err := exec.Exec(txCtx, insert, documentRowID, string(payload), next)
			return insertError(err)
		}

		if current != expected {
			return repositories.ErrRevisionConflict
		}
		update := fmt.Sprintf(`
			UPDATE %s SET payload = $2::jsonb, revision = $3, updated_at = NOW()
			WHERE id = $1
		`, s.table.Quoted())
		if _, err := exec.Exec(txCtx, update, documentRowID, string(payload), next); err != nil {
			return fmt.Errorf("update app data: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// insertError maps a lost race on the document row to ErrRevisionConflict.
func insertError(err error) error {
	if err == nil {
		return nil
	}
	if IsPgDuplicateError(err) {
		return repositories.ErrRevisionConflict
	}
	return fmt.Errorf("insert app data: %w", err)
}

// Reset deletes the document row.
func (s *DocumentStore) Reset(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table.Quoted())
	if _, err := s.pool.Exec(ctx, query, documentRowID); err != nil {
		if IsPgUndefinedTableError(err) {
			return nil
		}
		return fmt.Errorf("reset app data: %w", err)
	}
	s.logger.Info("app data reset", "table", s.table.Quoted())
	return nil
}

// Drop removes the app data table.
func (s *DocumentStore) Drop(ctx context.Context) error {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, s.table.Quoted())
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop app data table: %w", err)
	}
	s.logger.Info("app data table dropped", "table", s.table.Quoted())
	return nil
}
