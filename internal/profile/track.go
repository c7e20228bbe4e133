// Package profile turns raw playlist export rows into a single aggregate
// taste profile: genre distribution, audio-feature averages, rarity ranking,
// monthly trends, and a composite playlist rating.
package profile

import (
	"strconv"
	"strings"
	"time"

	"github.com/tastemap/playlist-tools/internal/ingest"
)

// Column aliases accepted per field. Matching is exact (case-sensitive);
// exporters disagree on header casing so common variants are listed.
var (
	idColumns     = []string{"Track ID", "Track URI", "track_id", "id"}
	nameColumns   = []string{"Track Name", "track_name", "name", "title"}
	artistColumns = []string{"Artist Name(s)", "Artist Name", "artist", "artists"}
	genreColumns  = []string{"Genres", "Genre", "genres", "genre"}
	popColumns    = []string{"Popularity", "popularity"}
	danceColumns  = []string{"Danceability", "danceability"}
	energyColumns = []string{"Energy", "energy"}
	valColumns    = []string{"Valence", "valence"}
	acousColumns  = []string{"Acousticness", "acousticness"}
	instrColumns  = []string{"Instrumentalness", "instrumentalness"}
	dateColumns   = []string{"Added At", "added_at", "Release Date", "date"}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// IdentityColumns returns the column names that carry a native track
// identifier. Rows missing a value for a present identifier column are
// dropped at parse time.
func IdentityColumns() []string {
	return idColumns
}

// Track is the canonical, immutable record for one unique track.
type Track struct {
	// ID is the native track identifier when the export carries one,
	// otherwise a normalized name|artist key.
	ID               string
	Name             string
	Artist           string
	PrimaryGenre     string
	Popularity       int // 0-100; 0 when absent or unparseable
	Danceability     float64
	Energy           float64
	Valence          float64
	Acousticness     float64
	Instrumentalness float64
	// AddedAt is zero when no date column parsed. After deduplication it is
	// the earliest occurrence across sources.
	AddedAt time.Time
	// Sources lists the originating playlists, for provenance only.
	Sources []string
}

// Normalize maps one raw row to a Track. ok is false when the row carries
// neither a native identifier nor a name/artist pair; such rows are dropped
// upstream of aggregation, never treated as an error.
func Normalize(row ingest.Row, source string) (Track, bool) {
	id := lookup(row, idColumns)
	name := lookup(row, nameColumns)
	artist := lookup(row, artistColumns)

	if id == "" && (name == "" || artist == "") {
		return Track{}, false
	}
	if id == "" {
		id = identityKey(name, artist)
	}

	t := Track{
		ID:               id,
		Name:             name,
		Artist:           artist,
		PrimaryGenre:     primaryGenre(lookup(row, genreColumns)),
		Popularity:       parseIntClamped(lookup(row, popColumns), 0, 100),
		Danceability:     parseFloatClamped(lookup(row, danceColumns), 0, 1),
		Energy:           parseFloatClamped(lookup(row, energyColumns), 0, 1),
		Valence:          parseFloatClamped(lookup(row, valColumns), 0, 1),
		Acousticness:     parseFloatClamped(lookup(row, acousColumns), 0, 1),
		Instrumentalness: parseFloatClamped(lookup(row, instrColumns), 0, 1),
		Sources:          []string{source},
	}
	if added := lookup(row, dateColumns); added != "" {
		if parsed, err := parseDate(added); err == nil {
			t.AddedAt = parsed
		}
	}
	return t, true
}

// lookup returns the first non-empty value among the aliased columns.
func lookup(row ingest.Row, columns []string) string {
	for _, col := range columns {
		if v, ok := row[col]; ok {
			v = strings.TrimSpace(v)
			if v != "" {
				return v
			}
		}
	}
	return ""
}

// identityKey builds the name|artist fallback key: lowercased with
// whitespace collapsed so cosmetic differences between exports still match.
func identityKey(name, artist string) string {
	return normToken(name) + "|" + normToken(artist)
}

func normToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// primaryGenre is the first token of the raw genre field, split on | or ,.
func primaryGenre(raw string) string {
	if raw == "" {
		return ""
	}
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ','
	})
	for _, tok := range tokens {
		if t := strings.TrimSpace(tok); t != "" {
			return t
		}
	}
	return ""
}

func parseIntClamped(raw string, min, max int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func parseFloatClamped(raw string, min, max float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// hasUsableColumns reports whether a header carries enough schema to
// identify tracks: a native identifier column, or a name and artist pair.
func hasUsableColumns(header []string) bool {
	present := func(columns []string) bool {
		for _, col := range header {
			for _, want := range columns {
				if col == want {
					return true
				}
			}
		}
		return false
	}
	if present(idColumns) {
		return true
	}
	return present(nameColumns) && present(artistColumns)
}
