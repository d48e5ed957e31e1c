package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tabify/tabify/internal/models"
	"github.com/tabify/tabify/internal/shared"
)

// LookupRepository implements models.Repository[*models.Lookup] for identification history.
//
// Handles lookup CRUD operations with soft delete support and recency queries.
type LookupRepository struct {
	db *sql.DB
}

// NewLookupRepository creates a new LookupRepository with the given database connection
func NewLookupRepository(db *sql.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// Create inserts a new lookup into the database with generated ID and sequence
func (r *LookupRepository) Create(lookup *models.Lookup) error {
	sequence, err := NextSequence(r.db, "lookups")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	lookup.SetID(id)
	lookup.SetSequence(sequence)

	if err := lookup.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO lookups (id, sequence, source_url, song, artist, album_art, tabs, lessons, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		lookup.SourceURL(),
		lookup.Song(),
		lookup.Artist(),
		lookup.AlbumArt(),
		lookup.Tabs(),
		lookup.Lessons(),
		lookup.CreatedAt(),
		lookup.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}

	return nil
}

// Get retrieves a lookup by ID, excluding soft-deleted lookups
func (r *LookupRepository) Get(id string) (*models.Lookup, error) {
	query := `
		SELECT id, sequence, source_url, song, artist, album_art, tabs, lessons, created_at, updated_at, deleted_at
		FROM lookups
		WHERE id = ? AND deleted_at IS NULL
	`

	lookup, err := scanLookup(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	return lookup, nil
}

// Update modifies an existing lookup in the database
func (r *LookupRepository) Update(lookup *models.Lookup) error {
	if err := lookup.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	lookup.SetUpdatedAt(now)

	query := `
		UPDATE lookups
		SET song = ?, artist = ?, album_art = ?, tabs = ?, lessons = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		lookup.Song(),
		lookup.Artist(),
		lookup.AlbumArt(),
		lookup.Tabs(),
		lookup.Lessons(),
		now,
		lookup.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update lookup: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrLookupNotFound, lookup.ID())
	}

	return nil
}

// Delete soft-deletes a lookup by ID
func (r *LookupRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE lookups
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete lookup: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrLookupNotFound, id)
	}

	return nil
}

// List retrieves all lookups matching the given criteria, excluding soft-deleted lookups
func (r *LookupRepository) List(criteria map[string]any) ([]*models.Lookup, error) {
	query := `
		SELECT id, sequence, source_url, song, artist, album_art, tabs, lessons, created_at, updated_at, deleted_at
		FROM lookups
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if sourceURL, ok := criteria["source_url"].(string); ok && sourceURL != "" {
		query += " AND source_url = ?"
		args = append(args, sourceURL)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	return collectLookups(rows)
}

// Recent retrieves the most recent lookups, newest first.
func (r *LookupRepository) Recent(limit int) ([]*models.Lookup, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sequence, source_url, song, artist, album_art, tabs, lessons, created_at, updated_at, deleted_at
		FROM lookups
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	return collectLookups(rows)
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic
type scanner interface {
	Scan(dest ...any) error
}

// scanLookup scans a single row into a [models.Lookup]
func scanLookup(row scanner) (*models.Lookup, error) {
	var (
		id        string
		sequence  int
		sourceURL string
		song      string
		artist    string
		albumArt  string
		tabs      string
		lessons   string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &sourceURL, &song, &artist, &albumArt, &tabs, &lessons, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrLookupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lookup: %w", err)
	}

	lookup := models.NewLookup(sequence, sourceURL, song, artist, albumArt, tabs, lessons)
	lookup.SetID(id)
	lookup.SetCreatedAt(createdAt)
	lookup.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		lookup.SetDeletedAt(&deletedAt.Time)
	}

	return lookup, nil
}

// collectLookups scans all rows into [models.Lookup] values
func collectLookups(rows *sql.Rows) ([]*models.Lookup, error) {
	var lookups []*models.Lookup
	for rows.Next() {
		lookup, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, lookup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lookups, nil
}
