package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/moodtunes/internal/models"
	"github.com/desertthunder/moodtunes/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestNextSequence(t *testing.T) {
	db := newTestDB(t)

	first, err := NextSequence(db, "generated_playlists")
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}
	second, err := NextSequence(db, "generated_playlists")
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}

	if first != 1 || second != 2 {
		t.Errorf("expected 1 then 2, got %d then %d", first, second)
	}
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("create assigns id and sequence", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))
		playlist := models.NewGeneratedPlaylist("sp-1", "MoodTunes — Happy / turn-it-up", "desc", "happy", "turn-it-up", 20)

		if err := repo.Create(playlist); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if playlist.ID() == "" {
			t.Error("expected generated id")
		}
		if playlist.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", playlist.Sequence())
		}
	})

	t.Run("create rejects invalid records", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))
		playlist := models.NewGeneratedPlaylist("", "", "", "", "", -1)

		if err := repo.Create(playlist); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("get round trips fields", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))
		playlist := models.NewGeneratedPlaylist("sp-1", "Name", "desc", "sad", "take-it-easy", 15)
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.Get(playlist.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if got.SpotifyID() != "sp-1" || got.Mood() != "sad" || got.Intent() != "take-it-easy" {
			t.Errorf("unexpected record %+v", got)
		}
		if got.TrackCount() != 15 {
			t.Errorf("expected 15 tracks, got %d", got.TrackCount())
		}
	})

	t.Run("get missing id", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))
		for _, name := range []string{"first", "second", "third"} {
			playlist := models.NewGeneratedPlaylist("sp-"+name, name, "", "chill", "go-with-flow", 10)
			if err := repo.Create(playlist); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		playlists, err := repo.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}

		if len(playlists) != 3 {
			t.Fatalf("expected 3 playlists, got %d", len(playlists))
		}
		if playlists[0].Name() != "third" {
			t.Errorf("expected newest first, got %s", playlists[0].Name())
		}
	})

	t.Run("delete is soft and hides the record", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewPlaylistRepository(db)
		playlist := models.NewGeneratedPlaylist("sp-1", "Name", "", "focus", "stay-focused", 5)
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := repo.Delete(playlist.ID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, err := repo.Get(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected deleted record to be hidden, got %v", err)
		}

		// Row still exists with deleted_at set.
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM generated_playlists WHERE deleted_at IS NOT NULL").Scan(&count); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 soft-deleted row, got %d", count)
		}

		if err := repo.Delete(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected second delete to report not found, got %v", err)
		}
	})
}
