package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/logging"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/rsakey"
)

var (
	// ErrNotFound is returned for labels that are not in the store.
	ErrNotFound = errors.New("keystore: key not found")
	// ErrExists is returned by Put when the label is already taken.
	ErrExists = errors.New("keystore: label already exists")
)

const schema = `
CREATE TABLE IF NOT EXISTS rsa_keys (
	label TEXT PRIMARY KEY,
	bits INTEGER NOT NULL,
	rsa_n TEXT NOT NULL,
	rsa_e TEXT NOT NULL,
	rsa_d TEXT NOT NULL,
	rsa_p TEXT NOT NULL,
	rsa_q TEXT NOT NULL,
	created_at DATETIME NOT NULL
);`

// Store keeps key pairs in a SQLite database, one row per label, every
// number in mpi hex form. Rows are validated through rsakey when read back.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Entry describes a stored key without its secrets.
type Entry struct {
	Label     string
	Bits      int
	Public    *rsakey.PublicKey
	CreatedAt time.Time
}

// Option configures Open.
type Option func(*Store)

// WithLogger sets the logger for store operations.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent and
	// serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores key under label.
func (s *Store) Put(ctx context.Context, label string, key *rsakey.PrivateKey) error {
	if label == "" || key == nil {
		return cbmpi.Errorf(cbmpi.KindInvalidArgument, "keystore.Put", "label and key are required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rsa_keys (label, bits, rsa_n, rsa_e, rsa_d, rsa_p, rsa_q, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		label, key.BitLen(),
		key.N().String(), key.E().String(),
		key.D().String(), key.P().String(), key.Q().String(),
		time.Now().UTC(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%w: %q", ErrExists, label)
		}
		return fmt.Errorf("insert %q: %w", label, err)
	}
	s.logger.Info(ctx, "key stored", "label", label, "bits", key.BitLen(), logging.Redacted("rsa_d"))
	return nil
}

// Private loads the key pair stored under label.
func (s *Store) Private(ctx context.Context, label string) (*rsakey.PrivateKey, error) {
	var n, e, d, p, q string
	err := s.db.QueryRowContext(ctx,
		`SELECT rsa_n, rsa_e, rsa_d, rsa_p, rsa_q FROM rsa_keys WHERE label = ?`, label).
		Scan(&n, &e, &d, &p, &q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", label, err)
	}
	key, err := rsakey.ParsePrivateKey(n + ":" + e + ":" + d + ":" + p + ":" + q)
	if err != nil {
		return nil, fmt.Errorf("stored key %q: %w", label, err)
	}
	return key, nil
}

// Public loads only the public half of the key stored under label.
func (s *Store) Public(ctx context.Context, label string) (*rsakey.PublicKey, error) {
	var n, e string
	err := s.db.QueryRowContext(ctx, `SELECT rsa_n, rsa_e FROM rsa_keys WHERE label = ?`, label).Scan(&n, &e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", label, err)
	}
	return parsePublic(label, n, e)
}

// List returns every stored key ordered by label.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label, bits, rsa_n, rsa_e, created_at FROM rsa_keys ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			ent  Entry
			n, e string
		)
		if err := rows.Scan(&ent.Label, &ent.Bits, &n, &e, &ent.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		if ent.Public, err = parsePublic(ent.Label, n, e); err != nil {
			return nil, err
		}
		out = append(out, ent)
	}
	return out, rows.Err()
}

// Delete removes the key stored under label.
func (s *Store) Delete(ctx context.Context, label string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rsa_keys WHERE label = ?`, label)
	if err != nil {
		return fmt.Errorf("delete %q: %w", label, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", label, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	s.logger.Info(ctx, "key deleted", "label", label)
	return nil
}

func parsePublic(label, n, e string) (*rsakey.PublicKey, error) {
	nv, err := mpi.Parse(n)
	if err != nil {
		return nil, fmt.Errorf("stored key %q: %w", label, err)
	}
	ev, err := mpi.Parse(e)
	if err != nil {
		return nil, fmt.Errorf("stored key %q: %w", label, err)
	}
	pub, err := rsakey.NewPublicKey(nv, ev)
	if err != nil {
		return nil, fmt.Errorf("stored key %q: %w", label, err)
	}
	return pub, nil
}
