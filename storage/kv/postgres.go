package kv

import (
	"database/sql"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fredgona305-cmyk/kjs/core"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS kv_records (
    key   text PRIMARY KEY,
    value jsonb NOT NULL
);`

// pgStore keeps every key in a single kv_records table.
type pgStore struct {
	db *sqlx.DB
}

var _ Store = (*pgStore)(nil) // interface compliance check

func OpenPostgresStore(conf *core.Config) (Store, error) {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.DatabaseAddress(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	db, err := sqlx.Open(conf.Database.Engine, u.String())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := ping(db); err != nil {
		return nil, err
	}
	if _, err := db.Exec(recordsSchema); err != nil {
		return nil, errors.Wrap(err, "ensuring kv_records table")
	}
	return &pgStore{db: db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func (s *pgStore) Load(key string) ([]byte, error) {
	var data []byte
	err := s.db.Get(&data, "SELECT value FROM kv_records WHERE key = $1", key)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading key %s", key)
	}
	return data, nil
}

func (s *pgStore) Save(key string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv_records (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, data,
	)
	return errors.Wrapf(err, "saving key %s", key)
}

func (s *pgStore) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv_records WHERE key = $1", key)
	return errors.Wrapf(err, "deleting key %s", key)
}

func (s *pgStore) Keys() ([]string, error) {
	var keys []string
	if err := s.db.Select(&keys, "SELECT key FROM kv_records ORDER BY key"); err != nil {
		return nil, errors.Wrap(err, "listing keys")
	}
	return keys, nil
}

func (s *pgStore) Close() error { return s.db.Close() }
