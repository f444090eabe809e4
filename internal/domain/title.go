package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/flixlens/flixlens/internal/normalize"
)

// ContentType distinguishes movies from TV shows.
type ContentType string

// Content types as they appear in the catalog file.
const (
	TypeMovie  ContentType = "Movie"
	TypeTVShow ContentType = "TV Show"
)

// ContentTypes lists every content type in display order.
var ContentTypes = []ContentType{TypeMovie, TypeTVShow}

// ParseContentType accepts the catalog spelling and common aliases.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(normalize.Text(s)) {
	case "movie", "movies", "film":
		return TypeMovie, nil
	case "tv show", "tv shows", "tv", "show", "shows", "tv-show", "series":
		return TypeTVShow, nil
	default:
		return "", fmt.Errorf("unknown content type %q", s)
	}
}

// Person roles in the credits tables.
const (
	RoleDirector = "director"
	RoleCast     = "cast"
)

// Title is one row of the catalog.
// Text fields hold the file's values (trimmed); derived values are computed
// once at load time.
type Title struct {
	Row         int         `json:"row"`               // 1-based position in the file; default order
	ShowID      string      `json:"show_id"`           // "s1"
	Type        ContentType `json:"type"`              // Movie or TV Show
	Title       string      `json:"title"`
	Director    string      `json:"director,omitempty"` // comma-separated
	Cast        string      `json:"cast,omitempty"`     // comma-separated
	Country     string      `json:"country,omitempty"`  // comma-separated, first is primary
	DateAdded   string      `json:"date_added,omitempty"`
	AddedOn     *time.Time  `json:"added_on,omitempty"` // nil when DateAdded is blank or unparseable
	ReleaseYear int         `json:"release_year"`
	Rating      string      `json:"rating,omitempty"`
	Duration    string      `json:"duration,omitempty"` // "90 min" or "2 Seasons"
	ListedIn    string      `json:"listed_in,omitempty"` // comma-separated genres
	Description string      `json:"description,omitempty"`
}

// YearAdded returns the year the title was added, 0 when unknown.
func (t *Title) YearAdded() int {
	if t.AddedOn == nil {
		return 0
	}
	return t.AddedOn.Year()
}

// MonthAdded returns the month the title was added, 0 when unknown.
func (t *Title) MonthAdded() int {
	if t.AddedOn == nil {
		return 0
	}
	return int(t.AddedOn.Month())
}

// DurationMinutes returns the runtime of a movie, or 0.
func (t *Title) DurationMinutes() int {
	if t.Type != TypeMovie {
		return 0
	}
	m, _ := ParseMinutes(t.Duration)
	return m
}

// Seasons returns the season count of a TV show, or 0.
func (t *Title) Seasons() int {
	if t.Type != TypeTVShow {
		return 0
	}
	s, _ := ParseSeasons(t.Duration)
	return s
}

// Directors returns the listed directors.
func (t *Title) Directors() []string { return normalize.List(t.Director) }

// CastMembers returns the listed cast.
func (t *Title) CastMembers() []string { return normalize.List(t.Cast) }

// Countries returns the listed production countries.
func (t *Title) Countries() []string { return normalize.List(t.Country) }

// Genres returns the listed genres.
func (t *Title) Genres() []string { return normalize.List(t.ListedIn) }

// PrimaryCountry returns the first listed country, or "".
func (t *Title) PrimaryCountry() string {
	if c := t.Countries(); len(c) > 0 {
		return c[0]
	}
	return ""
}

var (
	minutesPattern = regexp.MustCompile(`^(\d+)\s*min$`)
	seasonsPattern = regexp.MustCompile(`^(\d+)\s*Seasons?$`)
)

// ParseMinutes parses "90 min".
func ParseMinutes(s string) (int, bool) {
	m := minutesPattern.FindStringSubmatch(normalize.Text(s))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// ParseSeasons parses "1 Season" and "3 Seasons".
func ParseSeasons(s string) (int, bool) {
	m := seasonsPattern.FindStringSubmatch(normalize.Text(s))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// dateAddedLayouts are tried in order.
var dateAddedLayouts = []string{
	"January 2, 2006",
	"2006-01-02",
	"Jan 2, 2006",
}

// ParseDateAdded parses the date a title was added. Values that do not parse
// are treated as unknown rather than as an error.
func ParseDateAdded(s string) *time.Time {
	s = normalize.Text(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateAddedLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return &d
		}
	}
	return nil
}
