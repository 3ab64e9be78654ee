package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"dreamart/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users delete the catalog database to adopt the new schema (the
// directory tree and registry remain the durable state).
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages artwork records backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.Paths.CatalogFile
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

const artworkColumns = "slug, sku, stage, original_filename, paths_json, title, description, primary_colour, secondary_colour, created_at, updated_at"

// Upsert inserts or replaces the record for art.Slug. CreatedAt is preserved
// for existing records; UpdatedAt is always refreshed.
func (s *Store) Upsert(ctx context.Context, art *Artwork) error {
	if art == nil {
		return errors.New("artwork is nil")
	}
	if !art.Stage.Valid() {
		return fmt.Errorf("unknown stage %q", art.Stage)
	}
	now := time.Now().UTC()
	art.UpdatedAt = now
	if art.CreatedAt.IsZero() {
		art.CreatedAt = now
	}
	pathsJSON, err := json.Marshal(art.Paths)
	if err != nil {
		return fmt.Errorf("marshal paths: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO artworks (`+artworkColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(slug) DO UPDATE SET
             sku = excluded.sku,
             stage = excluded.stage,
             original_filename = excluded.original_filename,
             paths_json = excluded.paths_json,
             title = excluded.title,
             description = excluded.description,
             primary_colour = excluded.primary_colour,
             secondary_colour = excluded.secondary_colour,
             updated_at = excluded.updated_at`,
		art.Slug,
		art.SKU,
		string(art.Stage),
		nullableString(art.OriginalFilename),
		string(pathsJSON),
		nullableString(art.Title),
		nullableString(art.Description),
		nullableString(art.PrimaryColour),
		nullableString(art.SecondaryColour),
		art.CreatedAt.Format(time.RFC3339Nano),
		art.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert artwork: %w", err)
	}
	return nil
}

// GetBySlug fetches a record by slug. A missing slug returns (nil, nil).
func (s *Store) GetBySlug(ctx context.Context, slug string) (*Artwork, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artworkColumns+` FROM artworks WHERE slug = ?`, slug)
	art, err := scanArtwork(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artwork: %w", err)
	}
	return art, nil
}

// GetBySKU fetches a record by SKU. A missing SKU returns (nil, nil).
func (s *Store) GetBySKU(ctx context.Context, id string) (*Artwork, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artworkColumns+` FROM artworks WHERE sku = ?`, id)
	art, err := scanArtwork(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artwork by sku: %w", err)
	}
	return art, nil
}

// List returns records filtered by stage set (or all records when no stage
// is provided), ordered by creation time.
func (s *Store) List(ctx context.Context, stages ...Stage) ([]*Artwork, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + artworkColumns + ` FROM artworks`
	orderClause := ` ORDER BY created_at`

	if len(stages) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(stages))
		args := make([]any, len(stages))
		for i, stage := range stages {
			args[i] = string(stage)
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE stage IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}
	defer rows.Close()

	var artworks []*Artwork
	for rows.Next() {
		art, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		artworks = append(artworks, art)
	}
	return artworks, rows.Err()
}

// Delete removes a record by slug, reporting whether a row was removed.
func (s *Store) Delete(ctx context.Context, slug string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM artworks WHERE slug = ?`, slug)
	if err != nil {
		return false, fmt.Errorf("delete artwork: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats returns a count of records grouped by stage.
func (s *Store) Stats(ctx context.Context) (map[Stage]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stage, COUNT(1) FROM artworks GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Stage]int)
	for rows.Next() {
		var stage Stage
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		stats[stage] = count
	}
	return stats, rows.Err()
}

func scanArtwork(scanner interface{ Scan(dest ...any) error }) (*Artwork, error) {
	var (
		slug       string
		skuID      string
		stageStr   string
		original   sql.NullString
		pathsJSON  sql.NullString
		title      sql.NullString
		desc       sql.NullString
		primary    sql.NullString
		secondary  sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&slug,
		&skuID,
		&stageStr,
		&original,
		&pathsJSON,
		&title,
		&desc,
		&primary,
		&secondary,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	art := &Artwork{
		Slug:             slug,
		SKU:              skuID,
		Stage:            Stage(stageStr),
		OriginalFilename: original.String,
		Title:            title.String,
		Description:      desc.String,
		PrimaryColour:    primary.String,
		SecondaryColour:  secondary.String,
	}
	if pathsJSON.Valid && pathsJSON.String != "" {
		if err := json.Unmarshal([]byte(pathsJSON.String), &art.Paths); err != nil {
			return nil, fmt.Errorf("decode paths for %s: %w", slug, err)
		}
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		art.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		art.UpdatedAt = updated
	}
	return art, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
