// Package resultstore persists a computed success curve for later
// comparison across runs, keyed by a generated run ID. It is an optional,
// opt-in addition at the CLI layer — the engine itself stays stateless.
package resultstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Store persists and retrieves named simulation runs via database/sql,
// with the backend selected by the DSN's scheme, mirroring the teacher's
// internal/database multi-driver connection pattern.
type Store struct {
	db     *sql.DB
	driver string
}

// Run is one persisted simulation result.
type Run struct {
	ID        string
	Label     string
	Variant   string
	Success   []uint64
	CreatedAt time.Time
}

// Open parses dsn's scheme to pick a driver, connects, and ensures the
// results table exists. Supported schemes: sqlite:, postgres:, mysql:,
// sqlserver:.
func Open(dsn string) (*Store, error) {
	driver, connDSN, err := driverFor(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "resultstore.Open")
	}
	db, err := sql.Open(driver, connDSN)
	if err != nil {
		return nil, errors.Wrapf(err, "resultstore: opening %s connection", driver)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "resultstore: pinging %s database", driver)
	}
	s := &Store{db: db, driver: driver}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "resultstore: creating schema")
	}
	return s, nil
}

func driverFor(dsn string) (driver, connDSN string, err error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return "", "", fmt.Errorf("dsn %q has no scheme (expected sqlite://, postgres://, mysql://, or sqlserver://)", dsn)
	}
	switch scheme {
	case "sqlite":
		return "sqlite", rest, nil
	case "postgres", "postgresql":
		return "postgres", dsn, nil
	case "mysql":
		return "mysql", rest, nil
	case "sqlserver":
		return "sqlserver", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported dsn scheme %q", scheme)
	}
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			label      TEXT NOT NULL,
			variant    TEXT NOT NULL,
			success    TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`)
	return err
}

// Save persists a new run and returns its generated ID.
func (s *Store) Save(label, variant string, success []uint64) (string, error) {
	id := uuid.NewString()
	encoded := encodeSuccess(success)
	_, err := s.db.Exec(
		`INSERT INTO runs (id, label, variant, success, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, label, variant, encoded, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", errors.Wrapf(err, "resultstore: saving run %q", label)
	}
	return id, nil
}

// Load retrieves a previously saved run by ID.
func (s *Store) Load(id string) (Run, error) {
	var run Run
	var encoded, createdAt string
	row := s.db.QueryRow(`SELECT id, label, variant, success, created_at FROM runs WHERE id = ?`, id)
	if err := row.Scan(&run.ID, &run.Label, &run.Variant, &encoded, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("resultstore: no run with id %q", id)
		}
		return Run{}, errors.Wrapf(err, "resultstore: loading run %q", id)
	}
	success, err := decodeSuccess(encoded)
	if err != nil {
		return Run{}, errors.Wrapf(err, "resultstore: decoding run %q", id)
	}
	run.Success = success
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return run, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

func encodeSuccess(success []uint64) string {
	parts := make([]string, len(success))
	for i, v := range success {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}

func decodeSuccess(encoded string) ([]uint64, error) {
	if encoded == "" {
		return nil, nil
	}
	fields := strings.Split(encoded, ",")
	out := make([]uint64, len(fields))
	for i, f := range fields {
		var v uint64
		if _, err := fmt.Sscanf(f, "%d", &v); err != nil {
			return nil, fmt.Errorf("malformed success entry %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
