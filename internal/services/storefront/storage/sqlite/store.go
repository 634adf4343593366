package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/storefront/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for collection snapshots.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens and migrates a snapshot SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetSnapshot loads the snapshot of one collection for one owner.
func (s *Store) GetSnapshot(ctx context.Context, ownerID string, collection storage.Collection) (storage.Snapshot, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Snapshot{}, false, fmt.Errorf("storage is not configured")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return storage.Snapshot{}, false, fmt.Errorf("owner id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT owner_id, collection, payload_json, saved_at
		 FROM collection_snapshots
		 WHERE owner_id = ? AND collection = ?`,
		ownerID,
		string(collection),
	)

	var snapshot storage.Snapshot
	var name string
	var savedAt int64
	if err := row.Scan(&snapshot.OwnerID, &name, &snapshot.PayloadBytes, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Snapshot{}, false, nil
		}
		return storage.Snapshot{}, false, fmt.Errorf("get collection snapshot: %w", err)
	}
	snapshot.Collection = storage.Collection(name)
	snapshot.SavedAt = unixMillisToTime(savedAt)
	return snapshot, true, nil
}

// PutSnapshot inserts or replaces the snapshot of one collection for one owner.
func (s *Store) PutSnapshot(ctx context.Context, snapshot storage.Snapshot) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	snapshot.OwnerID = strings.TrimSpace(snapshot.OwnerID)
	if snapshot.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if strings.TrimSpace(string(snapshot.Collection)) == "" {
		return fmt.Errorf("collection is required")
	}
	if snapshot.PayloadBytes == nil {
		snapshot.PayloadBytes = []byte("[]")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO collection_snapshots (owner_id, collection, payload_json, saved_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner_id, collection) DO UPDATE SET
			payload_json = excluded.payload_json,
			saved_at = excluded.saved_at`,
		snapshot.OwnerID,
		string(snapshot.Collection),
		snapshot.PayloadBytes,
		timeToUnixMillis(snapshot.SavedAt),
	)
	if err != nil {
		return fmt.Errorf("put collection snapshot: %w", err)
	}
	return nil
}

// DeleteOwner removes every snapshot stored for ownerID.
func (s *Store) DeleteOwner(ctx context.Context, ownerID string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM collection_snapshots WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("delete owner snapshots: %w", err)
	}
	return nil
}

// Purge removes every stored snapshot.
func (s *Store) Purge(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM collection_snapshots`); err != nil {
		return fmt.Errorf("purge snapshots: %w", err)
	}
	return nil
}

// runMigrations applies embedded SQL migrations in filename order.
func (s *Store) runMigrations(ctx context.Context) error {
	return sqlitemigrate.Apply(ctx, s.sqlDB, migrations.FS, ".")
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
