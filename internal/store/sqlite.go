package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "coinwatch/internal/errors"
	"coinwatch/internal/models"
)

const favoritesSeededKey = "favorites_seeded"

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Favorites, ordered by insertion
	CREATE TABLE IF NOT EXISTS favorites (
		asset_id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Key/value metadata
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Last good snapshot, kept for offline startup (single row)
	CREATE TABLE IF NOT EXISTS snapshot_cache (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		fetched_at DATETIME NOT NULL,
		payload TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// LoadFavorites returns persisted favorites in insertion order, plus whether
// favorites have ever been saved.
func (s *SQLiteStore) LoadFavorites(ctx context.Context) ([]string, bool, error) {
	var seeded string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, favoritesSeededKey).Scan(&seeded)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewStoreError("load_favorites", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT asset_id FROM favorites ORDER BY position ASC`)
	if err != nil {
		return nil, false, apperrors.NewStoreError("load_favorites", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, false, apperrors.NewStoreError("load_favorites", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, false, apperrors.NewStoreError("load_favorites", err)
	}

	return ids, true, nil
}

// SaveFavorites replaces the persisted favorites with the given ordered list.
func (s *SQLiteStore) SaveFavorites(ctx context.Context, assetIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("save_favorites", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return apperrors.NewStoreError("save_favorites", err)
	}
	for i, id := range assetIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO favorites (asset_id, position) VALUES (?, ?)`, id, i); err != nil {
			return apperrors.NewStoreError("save_favorites", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, '1')
		 ON CONFLICT(key) DO UPDATE SET value = '1'`, favoritesSeededKey); err != nil {
		return apperrors.NewStoreError("save_favorites", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("save_favorites", err)
	}
	return nil
}

// SaveSnapshot caches the snapshot, replacing any prior one.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	payload, err := json.Marshal(snapshot.Records)
	if err != nil {
		return apperrors.NewStoreError("save_snapshot", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshot_cache (id, fetched_at, payload) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		snapshot.FetchedAt.UTC(), string(payload))
	if err != nil {
		return apperrors.NewStoreError("save_snapshot", err)
	}
	return nil
}

// LoadSnapshot returns the cached snapshot, or errors.ErrDataNotFound when
// nothing has been cached.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var fetchedAt time.Time
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM snapshot_cache WHERE id = 1`).Scan(&fetchedAt, &payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDataNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("load_snapshot", err)
	}

	var records []models.AssetRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, apperrors.NewStoreError("load_snapshot", err)
	}

	return models.NewSnapshot(records, fetchedAt), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
