package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when no blob exists for the requested id.
var ErrNotFound = errors.New("edited image not found")

// Record is one saved output blob.
type Record struct {
	ID        int64
	Name      string
	Format    string
	Width     int
	Height    int
	Data      []byte
	CreatedAt time.Time
}

// Store persists encoded output images in PostgreSQL. The pipeline hands it
// opaque bytes; nothing here inspects the pixels.
type Store struct {
	conn *pgx.Conn
}

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS edited_images (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			format TEXT NOT NULL,
			width INT NOT NULL,
			height INT NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS edited_images_name_idx ON edited_images (name);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.conn.Close(ctx)
}

// Save inserts an encoded image and returns its id.
func (s *Store) Save(ctx context.Context, name, format string, width, height int, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("refusing to store empty blob for %s", name)
	}

	var id int64
	err := s.conn.QueryRow(ctx, `
		INSERT INTO edited_images (name, format, width, height, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, name, format, width, height, data).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", name, err)
	}
	return id, nil
}

// Get loads a saved image by id.
func (s *Store) Get(ctx context.Context, id int64) (Record, error) {
	var r Record
	err := s.conn.QueryRow(ctx, `
		SELECT id, name, format, width, height, data, created_at
		FROM edited_images WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &r.Format, &r.Width, &r.Height, &r.Data, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

// List returns the saved images for name, newest first, without blob data.
func (s *Store) List(ctx context.Context, name string) ([]Record, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, name, format, width, height, created_at
		FROM edited_images WHERE name = $1
		ORDER BY id DESC
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Format, &r.Width, &r.Height, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Reset drops the table so the next New recreates it.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, `DROP TABLE IF EXISTS edited_images CASCADE;`)
	return err
}
