package reference

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"image"

	_ "modernc.org/sqlite"

	"github.com/ironsheep/card-tools-mcp/internal/imaging"
)

// schema.sql creates the reference table. Images are stored as PNG blobs.
//
//go:embed schema.sql
var schemaSQL string

// SQLite is a reference store persisted in a sqlite database. Entries load in
// insertion order.
type SQLite struct {
	*sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize reference schema: %w", err)
	}

	return &SQLite{db}, nil
}

// Add appends a labelled image and returns its row id.
func (s *SQLite) Add(ctx context.Context, label string, img image.Image) (int64, error) {
	data, err := imaging.EncodePNGBytes(img)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO card_references (label, image_png, width, height)
		VALUES (?, ?, ?, ?)
	`
	b := img.Bounds()
	result, err := s.ExecContext(ctx, query, label, data, b.Dx(), b.Dy())
	if err != nil {
		return 0, fmt.Errorf("failed to insert reference %q: %w", label, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get reference ID: %w", err)
	}
	return id, nil
}

// Load reads every stored reference in insertion order.
func (s *SQLite) Load(ctx context.Context) (*Store, error) {
	rows, err := s.QueryContext(ctx, `SELECT label, image_png FROM card_references ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query references: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var label string
		var data []byte
		if err := rows.Scan(&label, &data); err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		img, err := imaging.DecodeBytes(data)
		if err != nil {
			return nil, fmt.Errorf("reference %q: %w", label, err)
		}
		entries = append(entries, Entry{Label: label, Image: img})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read references: %w", err)
	}

	return NewStore(entries), nil
}
