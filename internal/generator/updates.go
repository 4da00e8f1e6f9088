package generator

// ProgressUpdate represents a progress event during playlist generation.
//
// Used to send real-time updates to the CLI or TUI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveMood Phase = iota
	FetchSeeds
	FetchRecommendations
	ShuffleTracks
	CreatePlaylist
	AddTracks
	RecordHistory
)

func (p Phase) String() string {
	switch p {
	case ResolveMood:
		return "resolve_mood"
	case FetchSeeds:
		return "fetch_seeds"
	case FetchRecommendations:
		return "fetch_recommendations"
	case ShuffleTracks:
		return "shuffle_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case RecordHistory:
		return "record_history"
	default:
		return ""
	}
}
