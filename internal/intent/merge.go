package intent

import "strings"

// Overrides are explicit caller-supplied values. Zero values mean "not supplied".
type Overrides struct {
	ContentType ContentType
	Language    string
	Page        int
	PageSize    int
	Limit       int
}

// Merge resolves the canonical Intent from caller overrides, an optional oracle hint and
// the lexical parse. Per field the precedence is override, then hint, then lexical, then
// default. The result always has a concrete content type.
func Merge(ov Overrides, hint Hint, hasHint bool, lex Intent) Intent {
	if !hasHint {
		hint = Hint{}
	}

	out := Intent{
		ContentType:   firstContentType(ov.ContentType, hint.ContentType, lex.ContentType),
		Language:      firstString(strings.ToLower(strings.TrimSpace(ov.Language)), strings.ToLower(strings.TrimSpace(hint.Language)), lex.Language),
		SeedTitle:     lex.SeedTitle,
		TitleQuery:    strings.TrimSpace(hint.TitleQuery),
		PersonName:    strings.TrimSpace(hint.PersonName),
		PersonRole:    hint.PersonRole,
		Keywords:      cleanWords(hint.Keywords),
		YearFrom:      firstInt(hint.YearFrom, lex.YearFrom),
		YearTo:        firstInt(hint.YearTo, lex.YearTo),
		Limit:         lex.Limit,
		Subscriptions: lex.Subscriptions,
		StrictSubs:    lex.StrictSubs,
		Page:          ov.Page,
		PageSize:      ov.PageSize,
	}
	if ov.Limit > 0 {
		out.Limit = ov.Limit
	}
	if out.PersonName == "" {
		out.PersonRole = RoleNone
	}

	// Hint genres replace lexical genres only when at least one word resolves.
	out.Genres = hintGenres(hint.Genres)
	if len(out.Genres) == 0 {
		out.Genres = append([]int(nil), lex.Genres...)
	}

	out.Normalize()
	return out
}

func hintGenres(words []string) []int {
	var ids []int
	for _, w := range words {
		if id, ok := GenreID(w); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func cleanWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return dedupe(out)
}

func firstContentType(candidates ...ContentType) ContentType {
	for _, c := range candidates {
		if c.Concrete() {
			return c
		}
	}
	return ContentMovie
}

func firstString(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// firstInt returns a copy of the first positive candidate.
func firstInt(candidates ...*int) *int {
	for _, c := range candidates {
		if c != nil && *c > 0 {
			v := *c
			return &v
		}
	}
	return nil
}
