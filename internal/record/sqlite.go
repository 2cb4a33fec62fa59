package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_records_collection ON records (collection, created_at);
`

// filterKeyRe restricts filter keys to plain payload field names, since
// they are interpolated into json_extract paths.
var filterKeyRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// SQLiteStore implements Store on a single-table SQLite database with
// JSON payloads.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (and if necessary creates) the database at dsn.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// modernc sqlite handles a single writer; serialize all access.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Create(ctx context.Context, collection string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding %s payload: %w", collection, err)
	}
	id := uuid.New().String()
	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, id, string(raw), now, now)
	if err != nil {
		return "", fmt.Errorf("inserting %s record: %w", collection, err)
	}
	return id, nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", collection, err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET payload = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(raw), s.now().UTC().Format(time.RFC3339Nano), collection, id)
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string, dest any) error {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, created_at, updated_at FROM records WHERE collection = ? AND id = ?`,
		collection, id)
	doc, err := scanDocument(row, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	rendered, err := doc.render()
	if err != nil {
		return err
	}
	return json.Unmarshal(rendered, dest)
}

func (s *SQLiteStore) Query(ctx context.Context, collection string, filter Filter, dest any) error {
	query := `SELECT id, payload, created_at, updated_at FROM records WHERE collection = ?`
	args := []any{collection}
	for key, value := range filter {
		if !filterKeyRe.MatchString(key) {
			return fmt.Errorf("invalid filter key %q", key)
		}
		query += fmt.Sprintf(" AND json_extract(payload, '$.%s') = ?", key)
		args = append(args, value)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying %s: %w", collection, err)
	}
	defer rows.Close()

	var rendered []json.RawMessage
	for rows.Next() {
		var (
			doc                  document
			createdAt, updatedAt string
			payload              string
		)
		if err := rows.Scan(&doc.ID, &payload, &createdAt, &updatedAt); err != nil {
			return err
		}
		doc.Payload = json.RawMessage(payload)
		if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return fmt.Errorf("parsing created_at for %s: %w", doc.ID, err)
		}
		if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return fmt.Errorf("parsing updated_at for %s: %w", doc.ID, err)
		}
		raw, err := doc.render()
		if err != nil {
			return err
		}
		rendered = append(rendered, raw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return decodeInto(rendered, dest)
}

func scanDocument(row *sql.Row, id string) (document, error) {
	var (
		doc                  document
		payload              string
		createdAt, updatedAt string
	)
	if err := row.Scan(&payload, &createdAt, &updatedAt); err != nil {
		return document{}, err
	}
	doc.ID = id
	doc.Payload = json.RawMessage(payload)
	var err error
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return document{}, fmt.Errorf("parsing created_at for %s: %w", id, err)
	}
	if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return document{}, fmt.Errorf("parsing updated_at for %s: %w", id, err)
	}
	return doc, nil
}
