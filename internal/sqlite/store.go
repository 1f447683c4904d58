// Package sqlite records contact submissions in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-equitysite/pkg/contact"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("sqlite: store closed")
	// ErrNotFound is returned by Get for unknown ids.
	ErrNotFound = errors.New("sqlite: submission not found")
)

// Store implements contact.Sink on top of SQLite. Values are stored exactly
// as validated; escaping happens when they are rendered.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

var _ contact.Sink = (*Store)(nil)

// Open creates the parent directory when needed, opens the database at path
// and applies the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// every connection to ":memory:" gets its own database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Accept stores sub.
func (s *Store) Accept(ctx context.Context, sub contact.Submission) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return ErrClosed
	}
	if sub.ID == uuid.Nil {
		return errors.New("sqlite: submission id is required")
	}

	data := sub.Data
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (submission_id, received_ns, name, email, organization, service, urgency, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID.String(),
		sub.ReceivedAt.UnixNano(),
		data.Name,
		data.Email,
		data.Organization,
		string(data.Service),
		string(data.Urgency),
		data.Message,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert submission: %w", err)
	}
	return nil
}

// List returns up to limit submissions, newest first. A limit <= 0 returns
// every row.
func (s *Store) List(ctx context.Context, limit int) ([]contact.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	query := `SELECT submission_id, received_ns, name, email, organization, service, urgency, message
		FROM submissions ORDER BY received_ns DESC, submission_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list submissions: %w", err)
	}
	defer rows.Close()

	var out []contact.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list submissions: %w", err)
	}
	return out, nil
}

// Get loads one submission.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (contact.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return contact.Submission{}, ErrClosed
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT submission_id, received_ns, name, email, organization, service, urgency, message
		 FROM submissions WHERE submission_id = ?`, id.String())
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Submission{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sub, err
}

// Count returns the number of stored submissions.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count submissions: %w", err)
	}
	return n, nil
}

// Close releases the database. Closing twice is safe.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (contact.Submission, error) {
	var (
		id, service, urgency string
		received             int64
		data                 contact.FormData
	)
	if err := row.Scan(&id, &received, &data.Name, &data.Email, &data.Organization, &service, &urgency, &data.Message); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contact.Submission{}, err
		}
		return contact.Submission{}, fmt.Errorf("sqlite: scan submission: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return contact.Submission{}, fmt.Errorf("sqlite: submission id %q: %w", id, err)
	}
	data.Service = contact.Service(service)
	data.Urgency = contact.Urgency(urgency)

	return contact.Submission{ID: parsedID, ReceivedAt: time.Unix(0, received).UTC(), Data: data}, nil
}
