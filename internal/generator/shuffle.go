package generator

import "github.com/desertthunder/moodtunes/internal/services"

// seededRand returns a deterministic pseudo-random source seeded from
// a string: FNV-1a over the seed, then xorshift per draw. The same
// mood/intent pair always yields the same track order.
func seededRand(seed string) func() float64 {
	h := uint32(2166136261)
	for i := 0; i < len(seed); i++ {
		h ^= uint32(seed[i])
		h *= 16777619
	}
	return func() float64 {
		h ^= h << 13
		h ^= h >> 17
		h ^= h << 5
		return float64(h%10000) / 10000
	}
}

// shuffleTracks returns a Fisher-Yates shuffled copy using the seeded source.
func shuffleTracks(tracks []services.SpotifyTrack, seed string) []services.SpotifyTrack {
	out := make([]services.SpotifyTrack, len(tracks))
	copy(out, tracks)

	rand := seededRand(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(rand() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
