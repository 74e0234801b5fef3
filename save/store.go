package save

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/playforge/gamecore/internal/logging"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

const (
	dbFileName   = "saves.db"
	lockFileName = "saves.lock"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	name       TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Slot describes one stored save without its payload.
type Slot struct {
	// ID is a stable unique identifier assigned when the slot is first
	// written. It survives overwrites of the slot's payload.
	ID string

	// Name is the slot's key, chosen by the game ("slot-1", "autosave").
	Name string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists save slots in a SQLite database inside a locked data
// directory. It is safe for concurrent use by multiple goroutines; cross-
// process exclusion comes from the directory lock.
type Store struct {
	// mu protects closed. The *sql.DB handles its own pooling.
	mu     sync.Mutex
	closed bool

	db   *sql.DB
	lock *flock.Flock
}

// Open creates the data directory if needed, takes the directory lock, and
// opens (creating if absent) the save database. Returns ErrLocked when
// another process holds the lock.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("save directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking save directory: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("opening %s: %w", dir, ErrLocked)
	}

	// WAL for concurrent reader/writer access, a busy timeout so a
	// contended connection retries instead of failing with SQLITE_BUSY,
	// and relaxed synchronous mode. The _pragma form is the one the
	// modernc driver understands.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		filepath.Join(dir, dbFileName),
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		releaseLock(lock)
		return nil, fmt.Errorf("opening save database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		releaseLock(lock)
		return nil, fmt.Errorf("pinging save database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		releaseLock(lock)
		return nil, fmt.Errorf("creating save schema: %w", err)
	}

	return &Store{db: db, lock: lock}, nil
}

// Save writes v as the payload of the named slot, creating the slot on first
// write and overwriting it afterwards. The slot's ID and CreatedAt survive
// overwrites.
func (s *Store) Save(ctx context.Context, name string, v any) error {
	if err := s.guard(name); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding save payload: %w", err)
	}

	now := toMillis(time.Now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (name, id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		name, uuid.NewString(), payload, now, now)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", name, err)
	}
	return nil
}

// Load decodes the named slot's payload into out, which must be a pointer.
// Returns ErrSlotNotFound when the slot does not exist.
func (s *Store) Load(ctx context.Context, name string, out any) error {
	if err := s.guard(name); err != nil {
		return err
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM saves WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("loading slot %q: %w", name, ErrSlotNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading slot %q: %w", name, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decoding slot %q: %w", name, err)
	}
	return nil
}

// Delete removes the named slot. Returns ErrSlotNotFound when it does not
// exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.guard(name); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting slot %q: %w", name, ErrSlotNotFound)
	}
	return nil
}

// List returns every slot ordered by most recent update first.
func (s *Store) List(ctx context.Context) ([]Slot, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM saves ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []Slot
	for rows.Next() {
		var slot Slot
		var created, updated int64
		if err := rows.Scan(&slot.ID, &slot.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		slot.CreatedAt = fromMillis(created)
		slot.UpdatedAt = fromMillis(updated)
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	return slots, nil
}

// Backup writes a consistent copy of the save database to dst, safe to take
// while the store is in use. Uses SQLite's VACUUM INTO so WAL contents are
// included.
func (s *Store) Backup(ctx context.Context, dst string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if dst == "" {
		return fmt.Errorf("backup destination must not be empty")
	}

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dst); err != nil {
		return fmt.Errorf("backing up save database: %w", err)
	}
	return nil
}

// Close closes the database and releases the directory lock. Idempotent;
// subsequent operations return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.db.Close()
	releaseLock(s.lock)
	if err != nil {
		return fmt.Errorf("closing save database: %w", err)
	}
	return nil
}

// ensureOpen rejects operations on a closed store.
func (s *Store) ensureOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// guard validates the slot name and rejects operations on a closed store.
func (s *Store) guard(name string) error {
	if name == "" {
		return fmt.Errorf("slot name must not be empty")
	}
	return s.ensureOpen()
}

// releaseLock unlocks the directory lock, logging rather than failing: the
// lock file going away with the process is the fallback.
func releaseLock(lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		logging.Logger().Warn("failed to release save directory lock", "error", err)
	}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
