// Package intent turns free-text recommendation prompts into a structured query plan.
//
// Three sources feed an Intent: explicit caller overrides, an optional semantic Oracle
// hint and the deterministic lexical Parse. Merge combines them with a fixed precedence.
package intent

import (
	"context"
	"strings"
)

// ContentType is the kind of title a request asks for.
type ContentType string

const (
	ContentUnknown ContentType = ""
	ContentMovie   ContentType = "movie"
	ContentSeries  ContentType = "series"
)

// ParseContentType maps caller and oracle spellings to a ContentType.
// Unrecognized values yield ContentUnknown.
func ParseContentType(s string) ContentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film", "films":
		return ContentMovie
	case "series", "tv", "show", "shows":
		return ContentSeries
	default:
		return ContentUnknown
	}
}

// Concrete reports whether c is movie or series.
func (c ContentType) Concrete() bool {
	return c == ContentMovie || c == ContentSeries
}

// PersonRole is the credit a person query is about.
type PersonRole string

const (
	RoleNone     PersonRole = ""
	RoleActor    PersonRole = "actor"
	RoleDirector PersonRole = "director"
	RoleWriter   PersonRole = "writer"
)

// ParsePersonRole maps an oracle role string to a PersonRole.
func ParsePersonRole(s string) PersonRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "actor", "actress", "cast":
		return RoleActor
	case "director":
		return RoleDirector
	case "writer", "screenwriter":
		return RoleWriter
	default:
		return RoleNone
	}
}

// Intent is the resolved query plan for one request.
// Empty strings, nil pointers and zero ints mean "unset".
type Intent struct {
	ContentType   ContentType `json:"content_type"`
	Language      string      `json:"language"`
	Genres        []int       `json:"genres"`
	SeedTitle     string      `json:"seed_title,omitempty"`
	TitleQuery    string      `json:"title_query,omitempty"`
	PersonName    string      `json:"person_name,omitempty"`
	PersonRole    PersonRole  `json:"person_role,omitempty"`
	Keywords      []string    `json:"keywords"`
	YearFrom      *int        `json:"year_from"`
	YearTo        *int        `json:"year_to"`
	Limit         int         `json:"limit,omitempty"`
	Subscriptions []string    `json:"subscriptions,omitempty"`
	StrictSubs    bool        `json:"strict_subs,omitempty"`
	Page          int         `json:"page"`
	PageSize      int         `json:"page_size"`
}

// Normalize enforces the Intent invariants: de-duplicated genre and subscription lists
// (first occurrence kept), non-nil slices, and YearFrom <= YearTo when both are set.
func (i *Intent) Normalize() {
	i.Genres = dedupe(i.Genres)
	i.Subscriptions = dedupe(i.Subscriptions)
	if i.Genres == nil {
		i.Genres = []int{}
	}
	if i.Keywords == nil {
		i.Keywords = []string{}
	}
	if i.YearFrom != nil && i.YearTo != nil && *i.YearFrom > *i.YearTo {
		i.YearFrom, i.YearTo = i.YearTo, i.YearFrom
	}
}

// Title returns the title used for similarity expansion: an oracle title query, else the seed.
func (i Intent) Title() string {
	if i.TitleQuery != "" {
		return i.TitleQuery
	}
	return i.SeedTitle
}

// GenresFor returns the genre ids to use against the given content type's catalog.
func (i Intent) GenresFor(ct ContentType) []int {
	if ct != ContentSeries {
		return i.Genres
	}
	out := make([]int, 0, len(i.Genres))
	for _, id := range i.Genres {
		out = append(out, SeriesGenreID(id))
	}
	return dedupe(out)
}

// Hint is the structured output of a semantic Oracle. Every field is optional.
type Hint struct {
	ContentType ContentType
	Language    string
	TitleQuery  string
	PersonName  string
	PersonRole  PersonRole
	Genres      []string
	Keywords    []string
	YearFrom    *int
	YearTo      *int
}

// Oracle is a best-effort semantic intent extractor. It never fails: an unavailable or
// failing extractor reports ok=false.
type Oracle interface {
	Extract(ctx context.Context, text string) (hint Hint, ok bool)
}

// NoOracle is the Oracle used when no semantic extractor is configured.
type NoOracle struct{}

// Extract always reports no hint.
func (NoOracle) Extract(context.Context, string) (Hint, bool) {
	return Hint{}, false
}

func dedupe[T comparable](in []T) []T {
	if in == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
