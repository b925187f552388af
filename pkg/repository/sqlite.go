package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/virtualvitae/vitae/pkg/model"
	"github.com/virtualvitae/vitae/pkg/utils/logging"
	_ "modernc.org/sqlite"
)

// sqliteRepo implements Repository on a local SQLite database. Each profile
// key owns exactly one row holding the JSON-serialized history, so no
// cross-key scan is ever required.
type sqliteRepo struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS histories (
  profile_key TEXT PRIMARY KEY,
  payload     TEXT NOT NULL,
  updated_at  INTEGER NOT NULL
);
`

// NewSQLite opens (or creates) the database at path and prepares the schema.
func NewSQLite(path string) (Repository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dir))
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", path))
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to prepare schema")
	}
	_ = os.Chmod(path, 0600)

	return &sqliteRepo{db: db}, nil
}

func (r *sqliteRepo) GetHistory(ctx context.Context, key model.ProfileKey) (model.History, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM histories WHERE profile_key = ?`, string(key),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return model.History{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read history", goerr.V("key", key))
	}

	var history model.History
	if err := json.Unmarshal([]byte(payload), &history); err != nil {
		// Corrupt payload degrades to an empty history rather than failing
		// the session. The record will be replaced on the next write.
		logging.From(ctx).Warn("discarding unreadable history payload",
			"key", key, "error", err)
		return model.History{}, nil
	}

	return history, nil
}

func (r *sqliteRepo) PutHistory(ctx context.Context, key model.ProfileKey, history model.History) error {
	payload, err := json.Marshal(history)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal history", goerr.V("key", key))
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO histories (profile_key, payload, updated_at) VALUES (?, ?, unixepoch())
		 ON CONFLICT(profile_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(key), string(payload),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save history", goerr.V("key", key))
	}
	return nil
}

func (r *sqliteRepo) PrependReflection(ctx context.Context, key model.ProfileKey, reflection *model.Reflection) (model.History, error) {
	history, err := r.GetHistory(ctx, key)
	if err != nil {
		return nil, err
	}

	history = history.Prepend(reflection)
	if err := r.PutHistory(ctx, key, history); err != nil {
		return nil, err
	}
	return history, nil
}

func (r *sqliteRepo) ClearHistory(ctx context.Context, key model.ProfileKey) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM histories WHERE profile_key = ?`, string(key)); err != nil {
		return goerr.Wrap(err, "failed to clear history", goerr.V("key", key))
	}
	return nil
}

func (r *sqliteRepo) Close() error {
	return r.db.Close()
}
