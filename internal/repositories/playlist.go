package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moodtunes/internal/models"
	"github.com/desertthunder/moodtunes/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.GeneratedPlaylist]
// over the generated_playlists table.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a repository with the given database connection.
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a playlist record with a generated ID and sequence number.
func (r *PlaylistRepository) Create(playlist *models.GeneratedPlaylist) error {
	sequence, err := NextSequence(r.db, "generated_playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	playlist.SetID(shared.GenerateID())
	playlist.SetSequence(sequence)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO generated_playlists (
			id, sequence, spotify_id, name, description, mood, intent,
			track_count, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		playlist.ID(),
		playlist.Sequence(),
		playlist.SpotifyID(),
		playlist.Name(),
		playlist.Description(),
		playlist.Mood(),
		playlist.Intent(),
		playlist.TrackCount(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted records.
func (r *PlaylistRepository) Get(id string) (*models.GeneratedPlaylist, error) {
	query := `
		SELECT id, sequence, spotify_id, name, description, mood, intent,
		       track_count, created_at, updated_at
		FROM generated_playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	playlist, err := scanPlaylist(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	return playlist, nil
}

// List retrieves all playlists newest first, excluding soft-deleted records.
func (r *PlaylistRepository) List() ([]*models.GeneratedPlaylist, error) {
	query := `
		SELECT id, sequence, spotify_id, name, description, mood, intent,
		       track_count, created_at, updated_at
		FROM generated_playlists
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.GeneratedPlaylist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}

	return playlists, rows.Err()
}

// Delete soft-deletes a playlist record.
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(
		"UPDATE generated_playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(row rowScanner) (*models.GeneratedPlaylist, error) {
	var (
		id, spotifyID, name, description, mood, intent string
		sequence, trackCount                           int
		createdAt, updatedAt                           time.Time
	)

	err := row.Scan(&id, &sequence, &spotifyID, &name, &description, &mood, &intent, &trackCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return models.RestoreGeneratedPlaylist(id, sequence, spotifyID, name, description, mood, intent, trackCount, createdAt, updatedAt), nil
}
