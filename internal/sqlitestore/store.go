// Package sqlitestore persists the secondary objects of graph containers in
// a SQLite database. Payloads are zstd-compressed and addressed by their
// blake3 digest so corrupted rows are detected on read.
package sqlitestore

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/specialistvlad/fxgraph/internal/subasset"
	"lukechampine.com/blake3"
	_ "modernc.org/sqlite"
)

var (
	ErrNotRegistered = errors.New("container not registered")
	ErrNotFound      = errors.New("object not found")
	ErrCorrupt       = errors.New("payload digest mismatch")
)

const pragmas = `
PRAGMA journal_mode=WAL;
PRAGMA foreign_keys=ON;
PRAGMA busy_timeout=5000;
`

const schema = `
CREATE TABLE IF NOT EXISTS containers (
	path TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS subassets (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	container TEXT NOT NULL REFERENCES containers(path) ON DELETE CASCADE,
	id TEXT NOT NULL,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	payload BLOB NOT NULL,
	digest BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE (container, id)
);
CREATE INDEX IF NOT EXISTS idx_subassets_container ON subassets(container);
`

// Store is a subasset.Storage backed by SQLite.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

var _ subasset.Storage = (*Store)(nil)

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One connection: an in-memory database exists per connection, and the
	// compiler is the only writer anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying pragmas: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	// Zero frames keep empty payloads non-NULL.
	enc, err := zstd.NewWriter(nil, zstd.WithZeroFrames(true))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &Store{db: db, enc: enc, dec: dec}, nil
}

// Close releases the database and codecs.
func (s *Store) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

// Register makes container persistent. Registering twice is a no-op.
func (s *Store) Register(ctx context.Context, container string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO containers (path, created_at) VALUES (?, ?)`,
		container, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("registering container %q: %w", container, err)
	}
	return nil
}

// IsPersistent reports whether container has been registered.
func (s *Store) IsPersistent(ctx context.Context, container string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM containers WHERE path = ?`, container).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying container %q: %w", container, err)
	}
	return n > 0, nil
}

// LoadAll returns the objects of container in insertion order.
func (s *Store) LoadAll(ctx context.Context, container string) ([]subasset.Record, error) {
	ok, err := s.IsPersistent(ctx, container)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%q: %w", container, ErrNotRegistered)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, name FROM subassets WHERE container = ? ORDER BY seq`, container)
	if err != nil {
		return nil, fmt.Errorf("querying objects of %q: %w", container, err)
	}
	defer rows.Close()

	var out []subasset.Record
	for rows.Next() {
		var r subasset.Record
		if err := rows.Scan(&r.ID, &r.Kind, &r.Name); err != nil {
			return nil, fmt.Errorf("scanning object row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Add stores obj, replacing a previous row with the same id.
func (s *Store) Add(ctx context.Context, container string, obj subasset.Object) error {
	payload, err := obj.ObjectPayload()
	if err != nil {
		return fmt.Errorf("encoding %s %s: %w", obj.ObjectKind(), obj.ObjectID(), err)
	}
	digest := blake3.Sum256(payload)
	compressed := s.enc.EncodeAll(payload, nil)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO subassets (container, id, kind, name, payload, digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (container, id) DO UPDATE SET
			kind = excluded.kind, name = excluded.name,
			payload = excluded.payload, digest = excluded.digest`,
		container, obj.ObjectID(), obj.ObjectKind(), obj.ObjectName(),
		compressed, digest[:], time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("inserting %s %s: %w", obj.ObjectKind(), obj.ObjectID(), err)
	}
	return nil
}

// Remove deletes the object with the given id.
func (s *Store) Remove(ctx context.Context, container string, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subassets WHERE container = ? AND id = ?`, container, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s in %q: %w", id, container, ErrNotFound)
	}
	return nil
}

// Payload returns the decompressed payload of an object after checking its
// digest.
func (s *Store) Payload(ctx context.Context, container string, id string) ([]byte, error) {
	var compressed, digest []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, digest FROM subassets WHERE container = ? AND id = ?`, container, id,
	).Scan(&compressed, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s in %q: %w", id, container, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", id, err)
	}

	payload, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", id, err)
	}
	sum := blake3.Sum256(payload)
	if !bytes.Equal(sum[:], digest) {
		return nil, fmt.Errorf("%s in %q: %w", id, container, ErrCorrupt)
	}
	return payload, nil
}
