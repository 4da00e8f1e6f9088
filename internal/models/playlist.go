package models

import (
	"fmt"
	"time"
)

// GeneratedPlaylist records one playlist created on Spotify: which
// mood and intent produced it, how many tracks it holds, and the
// provider-side id needed to find it again.
type GeneratedPlaylist struct {
	id         string
	sequence   int
	spotifyID  string
	name       string
	desc       string
	mood       string
	intent     string
	trackCount int
	createdAt  time.Time
	updatedAt  time.Time
}

// NewGeneratedPlaylist constructs a record for a playlist just created
// on the provider.
func NewGeneratedPlaylist(spotifyID, name, description, mood, intent string, trackCount int) *GeneratedPlaylist {
	now := time.Now().UTC()
	return &GeneratedPlaylist{
		spotifyID:  spotifyID,
		name:       name,
		desc:       description,
		mood:       mood,
		intent:     intent,
		trackCount: trackCount,
		createdAt:  now,
		updatedAt:  now,
	}
}

// RestoreGeneratedPlaylist rebuilds a record from persisted fields.
func RestoreGeneratedPlaylist(id string, sequence int, spotifyID, name, description, mood, intent string, trackCount int, createdAt, updatedAt time.Time) *GeneratedPlaylist {
	return &GeneratedPlaylist{
		id:         id,
		sequence:   sequence,
		spotifyID:  spotifyID,
		name:       name,
		desc:       description,
		mood:       mood,
		intent:     intent,
		trackCount: trackCount,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (p *GeneratedPlaylist) ID() string           { return p.id }
func (p *GeneratedPlaylist) Sequence() int        { return p.sequence }
func (p *GeneratedPlaylist) SpotifyID() string    { return p.spotifyID }
func (p *GeneratedPlaylist) Name() string         { return p.name }
func (p *GeneratedPlaylist) Description() string  { return p.desc }
func (p *GeneratedPlaylist) Mood() string         { return p.mood }
func (p *GeneratedPlaylist) Intent() string       { return p.intent }
func (p *GeneratedPlaylist) TrackCount() int      { return p.trackCount }
func (p *GeneratedPlaylist) CreatedAt() time.Time { return p.createdAt }
func (p *GeneratedPlaylist) UpdatedAt() time.Time { return p.updatedAt }

// SetID assigns the generated identifier. Called by the repository on insert.
func (p *GeneratedPlaylist) SetID(id string) { p.id = id }

// SetSequence assigns the human-readable ordering number.
func (p *GeneratedPlaylist) SetSequence(sequence int) { p.sequence = sequence }

// Validate checks required fields before persistence.
func (p *GeneratedPlaylist) Validate() error {
	if p.id == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.spotifyID == "" {
		return fmt.Errorf("spotify playlist id is required")
	}
	if p.name == "" {
		return fmt.Errorf("playlist name is required")
	}
	if p.mood == "" || p.intent == "" {
		return fmt.Errorf("mood and intent are required")
	}
	if p.trackCount < 0 {
		return fmt.Errorf("track count cannot be negative")
	}
	return nil
}
