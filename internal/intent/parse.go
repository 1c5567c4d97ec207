package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type category[T any] struct {
	value    T
	patterns []*regexp.Regexp
}

func compileCategory[T any](value T, keywords ...string) category[T] {
	c := category[T]{value: value}
	for _, k := range keywords {
		c.patterns = append(c.patterns, wordPattern(k))
	}
	return c
}

// firstIndex returns the earliest match position of any pattern in t, or -1.
func (c category[T]) firstIndex(t string) int {
	best := -1
	for _, re := range c.patterns {
		if loc := re.FindStringIndex(t); loc != nil && (best < 0 || loc[0] < best) {
			best = loc[0]
		}
	}
	return best
}

var (
	contentCategories = func() []category[ContentType] {
		out := make([]category[ContentType], len(contentHints))
		for i, h := range contentHints {
			out[i] = compileCategory(h.contentType, h.keywords...)
		}
		return out
	}()

	languageCategories = func() []category[string] {
		out := make([]category[string], len(languageHints))
		for i, h := range languageHints {
			out[i] = compileCategory(h.code, h.keywords...)
		}
		return out
	}()

	genreCategories = func() []category[int] {
		out := make([]category[int], len(genreNames))
		for i, g := range genreNames {
			out[i] = compileCategory(g.id, g.name)
		}
		return out
	}()

	platformCategories = func() []category[string] {
		out := make([]category[string], len(platformAliases))
		for i, p := range platformAliases {
			out[i] = compileCategory(p.canonical, p.alias)
		}
		return out
	}()

	seedPattern      = regexp.MustCompile(`\b(?:like|similar to)\s+(.+)$`)
	seedTailPattern  = regexp.MustCompile(`\b(?:on|from)\b.*$`)
	topPattern       = regexp.MustCompile(`\btop\s+(\d+)\b`)
	countPattern     = regexp.MustCompile(`\b(\d+)\s+(?:recommendations|recs|movies|shows)\b`)
	yearLikePattern  = regexp.MustCompile(`^(?:19|20)\d{2}$`)
	thrillSubstring  = "thrill"
)

// Parse extracts an Intent from raw text using keyword tables and regular expressions.
// It is pure and total: unmatched text yields an Intent with only unset fields.
func Parse(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))

	in := Intent{
		ContentType: firstCategory(contentCategories, t, ContentUnknown),
		Language:    firstCategory(languageCategories, t, ""),
		Genres:      parseGenres(t),
		SeedTitle:   parseSeed(t),
		Limit:       parseLimit(t),
	}
	in.YearFrom, in.YearTo = extractYears(t)
	in.Subscriptions, in.StrictSubs = parseSubscriptions(t)

	in.Normalize()
	return in
}

// firstCategory returns the value of the first category, in table order, that matches t.
func firstCategory[T any](cats []category[T], t string, unset T) T {
	for _, c := range cats {
		if c.firstIndex(t) >= 0 {
			return c.value
		}
	}
	return unset
}

// allCategories returns the values of every matching category ordered by where they
// first appear in t. Ties keep table order.
func allCategories[T any](cats []category[T], t string) []T {
	type hit struct {
		pos   int
		value T
	}
	var hits []hit
	for _, c := range cats {
		if pos := c.firstIndex(t); pos >= 0 {
			hits = append(hits, hit{pos, c.value})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]T, len(hits))
	for i, h := range hits {
		out[i] = h.value
	}
	return out
}

func parseGenres(t string) []int {
	genres := dedupe(allCategories(genreCategories, t))
	// "thrilling", "thrills" miss the whole-word rule.
	if strings.Contains(t, thrillSubstring) && !containsInt(genres, GenreThriller) {
		genres = append(genres, GenreThriller)
	}
	return genres
}

func parseSeed(t string) string {
	m := seedPattern.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	seed := strings.TrimSpace(m[1])
	seed = strings.TrimSpace(seedTailPattern.ReplaceAllString(seed, ""))
	return seed
}

// parseLimit reads "top N" or "N recommendations|recs|movies|shows".
// A count that looks like a year ("2019 movies") is a year, not a limit.
func parseLimit(t string) int {
	if m := topPattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
		return 0
	}
	for _, m := range countPattern.FindAllStringSubmatch(t, -1) {
		if yearLikePattern.MatchString(m[1]) {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
		return 0
	}
	return 0
}

func parseSubscriptions(t string) ([]string, bool) {
	subs := dedupe(allCategories(platformCategories, t))
	strict := false
	for _, p := range strictPhrases {
		if strings.Contains(t, p) {
			strict = true
			break
		}
	}
	return subs, strict
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
