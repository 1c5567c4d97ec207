package recommend

import "math"

const (
	ratingWeight     = 0.50
	overlapWeight    = 0.25
	popularityWeight = 0.20
	languageWeight   = 0.05

	// neutralOverlap stands in for genre overlap when the request has no genre filter.
	neutralOverlap = 0.35
	// popularityCeiling is the popularity at which the popularity term saturates.
	popularityCeiling = 200.0
)

// Score rates a candidate from 0 to 100 against the target genres and language.
// bonus is added before clamping and is only meant for similar-list members.
func Score(c Candidate, genres []int, language string, bonus float64) int {
	rating := clamp01(c.VoteAverage / 10)

	overlap := neutralOverlap
	if len(genres) > 0 {
		overlap = float64(countOverlap(c.GenreIDs, genres)) / float64(len(genres))
	}

	popularity := clamp01(c.Popularity / popularityCeiling)

	lang := 0.0
	if language != "" && c.OriginalLanguage == language {
		lang = 1.0
	}

	base := ratingWeight*rating + overlapWeight*overlap + popularityWeight*popularity + languageWeight*lang
	final := math.Min(base+bonus, 1.0)
	return int(math.RoundToEven(clamp01(final) * 100))
}

func countOverlap(have, want []int) int {
	set := make(map[int]struct{}, len(want))
	for _, id := range want {
		set[id] = struct{}{}
	}
	n := 0
	for _, id := range have {
		if _, ok := set[id]; ok {
			n++
			delete(set, id)
		}
	}
	return n
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
