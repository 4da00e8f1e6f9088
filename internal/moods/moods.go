// Package moods maps user-facing moods and intents onto the four
// internal buckets (happy, chill, sad, focus) and their audio-feature
// tunables. [GetTargets] never fails; unknown inputs land on a
// sensible fallback.
package moods

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed data/mapping.toml
var mappingData []byte

// UIMoods are the moods a user (or the expression detector) can pick.
var UIMoods = []string{"happy", "angry", "sad", "fearful", "disgusted", "surprised", "neutral"}

// UIIntents are the selectable intents. change-the-mood is special:
// it flips the mood to its opposite bucket before mapping.
var UIIntents = []string{"go-with-flow", "turn-it-up", "take-it-easy", "stay-focused", "change-the-mood"}

// CoreMoods are the internal mood buckets.
var CoreMoods = []string{"happy", "chill", "sad", "focus"}

// CoreIntents are the internal intent buckets.
var CoreIntents = []string{"turn-it-up", "take-it-easy", "stay-focused", "go-with-flow"}

// moodAlias collapses UI moods into core buckets.
var moodAlias = map[string]string{
	"happy":     "happy",
	"sad":       "sad",
	"neutral":   "chill",
	"fearful":   "chill",
	"surprised": "happy",
	"angry":     "focus",
	"disgusted": "focus",
}

var intentAlias = map[string]string{
	"go-with-flow":    "go-with-flow",
	"turn-it-up":      "turn-it-up",
	"take-it-easy":    "take-it-easy",
	"stay-focused":    "stay-focused",
	"change-the-mood": "go-with-flow",
}

// oppositeMood pairs each bucket with its counterpart on the same
// axis: happy/sad (valence) and chill/focus (activation).
var oppositeMood = map[string]string{
	"happy": "sad",
	"sad":   "happy",
	"chill": "focus",
	"focus": "chill",
}

var genreSeeds = map[string][]string{
	"happy": {"pop", "dance", "summer"},
	"chill": {"chill", "acoustic", "ambient"},
	"sad":   {"sad", "piano", "acoustic"},
	"focus": {"study", "ambient", "electronic"},
}

// mapping is keyed by core mood, then core intent.
var mapping map[string]map[string]map[string]float64

func init() {
	if err := toml.Unmarshal(mappingData, &mapping); err != nil {
		panic(fmt.Sprintf("failed to parse embedded mood mapping: %v", err))
	}
}

// Selection is the result of resolving a UI mood/intent pair.
type Selection struct {
	Targets     map[string]float64
	CoreMood    string
	CoreIntent  string
	UIMood      string
	UIIntent    string
	MoodChanged bool
}

// GetTargets resolves a UI mood and intent to tunables. Empty or
// unknown values normalize to neutral/go-with-flow; the change-the-mood
// intent flips the core mood to its opposite bucket.
func GetTargets(mood, intent string) Selection {
	uiMood := normalize(mood, "neutral")
	uiIntent := normalize(intent, "go-with-flow")

	changeMood := uiIntent == "change-the-mood"

	coreMood := NormalizeMood(uiMood)
	coreIntent := NormalizeIntent(uiIntent)

	if changeMood {
		coreMood = oppositeMood[coreMood]
	}

	targets := mapping[coreMood][coreIntent]
	if targets == nil {
		targets = fallbackTargets(coreMood)
	}

	return Selection{
		Targets:     targets,
		CoreMood:    coreMood,
		CoreIntent:  coreIntent,
		UIMood:      uiMood,
		UIIntent:    uiIntent,
		MoodChanged: changeMood,
	}
}

// NormalizeMood collapses a UI mood into its core bucket, defaulting
// to chill.
func NormalizeMood(mood string) string {
	if core, ok := moodAlias[normalize(mood, "")]; ok {
		return core
	}
	return "chill"
}

// NormalizeIntent collapses a UI intent into its core bucket,
// defaulting to go-with-flow.
func NormalizeIntent(intent string) string {
	if core, ok := intentAlias[normalize(intent, "")]; ok {
		return core
	}
	return "go-with-flow"
}

// GenreSeeds returns recommendation genre seeds for a core mood, used
// when the listening history yields no track or artist seeds.
func GenreSeeds(coreMood string) []string {
	if seeds, ok := genreSeeds[coreMood]; ok {
		return seeds
	}
	return genreSeeds["chill"]
}

func fallbackTargets(coreMood string) map[string]float64 {
	if targets := mapping[coreMood]["go-with-flow"]; targets != nil {
		return targets
	}
	return map[string]float64{
		"target_energy":           0.55,
		"target_valence":          0.55,
		"target_danceability":     0.5,
		"target_tempo":            110,
		"target_acousticness":     0.35,
		"target_instrumentalness": 0.35,
	}
}

func normalize(value, fallback string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return fallback
	}
	return v
}
