package recommend

import "github.com/moviechat/moviechat/internal/metadata/tmdb"

// Candidate is a raw catalog result plus retrieval provenance.
type Candidate struct {
	tmdb.MediaResult
	// FromSimilar marks members of a similar-titles list; they earn the similarity bonus.
	FromSimilar bool
}

// Media returns the candidate's catalog media type, defaulting to movie.
func (c Candidate) Media() tmdb.MediaType {
	if c.MediaType == tmdb.MediaTV {
		return tmdb.MediaTV
	}
	return tmdb.MediaMovie
}

func candidatesFrom(results []tmdb.MediaResult, media tmdb.MediaType, fromSimilar bool) []Candidate {
	out := make([]Candidate, 0, len(results))
	for _, r := range results {
		if r.MediaType == "" {
			r.MediaType = media
		}
		out = append(out, Candidate{MediaResult: r, FromSimilar: fromSimilar})
	}
	return out
}

// Dedupe drops candidates without an id and repeated ids. The first occurrence wins
// and relative order is preserved.
func Dedupe(in []Candidate) []Candidate {
	seen := make(map[int]struct{}, len(in))
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		if c.ID == 0 {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
