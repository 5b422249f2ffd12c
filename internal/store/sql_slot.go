package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ticktrack/internal/db"
	"github.com/alexanderramin/ticktrack/internal/domain"
)

// SQLStore keeps the slot in the kv_slots table of a SQL database.
type SQLStore struct {
	db     *sql.DB
	uow    db.UnitOfWork
	key    string
	upsert string
	now    func() time.Time
}

const sqliteUpsert = `INSERT INTO kv_slots (slot_key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(slot_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// NewSQLiteStore stores the slot under key in an already migrated SQLite
// database (see db.OpenDB).
func NewSQLiteStore(database *sql.DB, key string) *SQLStore {
	return newSQLStore(database, key, sqliteUpsert)
}

func newSQLStore(database *sql.DB, key, upsert string) *SQLStore {
	if key == "" {
		key = DefaultSlotKey
	}
	return &SQLStore{
		db:     database,
		uow:    db.NewTxRunner(database),
		key:    key,
		upsert: upsert,
		now:    time.Now,
	}
}

// WithUnitOfWork replaces the transaction runner used by Save.
func (s *SQLStore) WithUnitOfWork(uow db.UnitOfWork) *SQLStore {
	s.uow = uow
	return s
}

func (s *SQLStore) Load(ctx context.Context) ([]domain.TimeEntry, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE slot_key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.TimeEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", s.key, err)
	}
	entries, err := DecodeEntries([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("decoding slot %q: %w", s.key, err)
	}
	return entries, nil
}

func (s *SQLStore) Save(ctx context.Context, entries []domain.TimeEntry) error {
	data, err := EncodeEntries(entries)
	if err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, s.upsert, s.key, string(data), FormatTimestamp(s.now())); err != nil {
			return fmt.Errorf("writing slot %q: %w", s.key, err)
		}
		return nil
	})
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
