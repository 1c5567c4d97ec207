package intent

import (
	"regexp"
	"strings"
)

// Every table below is ordered: earlier entries win wherever precedence matters.

type contentHint struct {
	contentType ContentType
	keywords    []string
}

// contentHints is tested top to bottom; the first category with any match wins.
var contentHints = []contentHint{
	{ContentMovie, []string{"movie", "movies", "film", "films"}},
	{ContentSeries, []string{"series", "tv", "show", "shows", "web series", "episode", "episodes"}},
}

type languageHint struct {
	keywords []string
	code     string
}

// languageHints maps prompt words to ISO 639-1 codes; the first matching entry wins.
var languageHints = []languageHint{
	{[]string{"hindi", "bollywood", "india", "indian"}, "hi"},
	{[]string{"english", "hollywood"}, "en"},
	{[]string{"korean", "k-drama", "kdrama"}, "ko"},
	{[]string{"japanese", "jp", "anime"}, "ja"},
	{[]string{"spanish"}, "es"},
	{[]string{"french"}, "fr"},
	{[]string{"tamil"}, "ta"},
	{[]string{"telugu"}, "te"},
	{[]string{"malayalam"}, "ml"},
	{[]string{"german"}, "de"},
	{[]string{"italian"}, "it"},
	{[]string{"chinese", "mandarin"}, "zh"},
}

type genreName struct {
	name string
	id   int
}

// TMDB movie genre ids.
const (
	GenreAction      = 28
	GenreAdventure   = 12
	GenreAnimation   = 16
	GenreComedy      = 35
	GenreCrime       = 80
	GenreDocumentary = 99
	GenreDrama       = 18
	GenreFamily      = 10751
	GenreFantasy     = 14
	GenreHistory     = 36
	GenreHorror      = 27
	GenreMusic       = 10402
	GenreMystery     = 9648
	GenreRomance     = 10749
	GenreSciFi       = 878
	GenreThriller    = 53
	GenreWar         = 10752
	GenreWestern     = 37
)

var genreNames = []genreName{
	{"action", GenreAction},
	{"adventure", GenreAdventure},
	{"animation", GenreAnimation},
	{"animated", GenreAnimation},
	{"anime", GenreAnimation},
	{"comedy", GenreComedy},
	{"crime", GenreCrime},
	{"documentary", GenreDocumentary},
	{"drama", GenreDrama},
	{"family", GenreFamily},
	{"fantasy", GenreFantasy},
	{"history", GenreHistory},
	{"horror", GenreHorror},
	{"music", GenreMusic},
	{"mystery", GenreMystery},
	{"romance", GenreRomance},
	{"sci fi", GenreSciFi},
	{"sci-fi", GenreSciFi},
	{"science fiction", GenreSciFi},
	{"thriller", GenreThriller},
	{"war", GenreWar},
	{"western", GenreWestern},
}

var genreIndex = func() map[string]int {
	m := make(map[string]int, len(genreNames))
	for _, g := range genreNames {
		m[g.name] = g.id
	}
	return m
}()

// GenreID returns the catalog genre id for a genre word.
func GenreID(name string) (int, bool) {
	id, ok := genreIndex[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// seriesGenres maps movie genre ids without a TV counterpart to the combined TV genre.
var seriesGenres = map[int]int{
	GenreAction:    10759, // Action & Adventure
	GenreAdventure: 10759,
	GenreSciFi:     10765, // Sci-Fi & Fantasy
	GenreFantasy:   10765,
	GenreWar:       10768, // War & Politics
}

// SeriesGenreID returns the TV catalog equivalent of a movie genre id.
func SeriesGenreID(id int) int {
	if tv, ok := seriesGenres[id]; ok {
		return tv
	}
	return id
}

type platformAlias struct {
	alias     string
	canonical string
}

// platformAliases maps colloquial platform names to display names.
var platformAliases = []platformAlias{
	{"netflix", "Netflix"},
	{"prime video", "Prime Video"},
	{"amazon prime", "Prime Video"},
	{"prime", "Prime Video"},
	{"amazon", "Prime Video"},
	{"disney+", "Disney+"},
	{"disney plus", "Disney+"},
	{"hotstar", "Hotstar"},
	{"jiohotstar", "Hotstar"},
	{"hulu", "Hulu"},
	{"hbo max", "Max"},
	{"hbo", "Max"},
	{"apple tv+", "Apple TV+"},
	{"apple tv", "Apple TV+"},
	{"zee5", "ZEE5"},
	{"sonyliv", "SonyLIV"},
	{"sony liv", "SonyLIV"},
	{"jiocinema", "JioCinema"},
	{"peacock", "Peacock"},
	{"paramount+", "Paramount+"},
	{"paramount plus", "Paramount+"},
	{"mubi", "MUBI"},
}

// strictPhrases turn subscription hints into a hard filter.
var strictPhrases = []string{"only on", "must be on", "available on", "streaming on only"}

// wordPattern compiles a whole-word matcher for a possibly multi-word keyword.
// Keywords ending in a non-word character (e.g. "disney+") only need a leading boundary.
func wordPattern(keyword string) *regexp.Regexp {
	expr := `\b` + regexp.QuoteMeta(keyword)
	last := keyword[len(keyword)-1]
	if isWordByte(last) {
		expr += `\b`
	}
	return regexp.MustCompile(expr)
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
