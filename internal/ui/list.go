package ui

import (
	"fmt"

	"github.com/desertthunder/moodtunes/internal/services"
)

// moodItem wraps a selectable mood to implement list.Item.
type moodItem struct {
	mood string
}

func (i moodItem) FilterValue() string { return i.mood }
func (i moodItem) Title() string       { return i.mood }
func (i moodItem) Description() string {
	switch i.mood {
	case "happy":
		return "upbeat and positive"
	case "sad":
		return "melancholic and slow"
	case "angry":
		return "channel it into focus"
	case "fearful":
		return "something calming"
	case "disgusted":
		return "reset with focus"
	case "surprised":
		return "ride the high"
	default:
		return "easy listening"
	}
}

// intentItem wraps a selectable intent to implement list.Item.
type intentItem struct {
	intent string
}

func (i intentItem) FilterValue() string { return i.intent }
func (i intentItem) Title() string       { return i.intent }
func (i intentItem) Description() string {
	switch i.intent {
	case "turn-it-up":
		return "high energy, danceable"
	case "take-it-easy":
		return "relaxed and mellow"
	case "stay-focused":
		return "instrumental, fewer lyrics"
	case "change-the-mood":
		return "flip to the opposite mood"
	default:
		return "match the current vibe"
	}
}

// trackItem wraps [services.SpotifyTrack] to implement list.Item.
type trackItem struct {
	track services.SpotifyTrack
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := i.track.ArtistNames()
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return desc
}
