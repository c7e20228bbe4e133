package profile

import "sort"

// GenreCount is one entry of the genre distribution.
type GenreCount struct {
	Genre string `yaml:"genre" json:"genre"`
	Count int    `yaml:"count" json:"count"`
}

// TopGenres counts primary genres across unique tracks: each unique track
// casts exactly one vote, regardless of how many playlists it appears in.
// Tracks with an empty genre field are excluded here but still counted by
// every other aggregate. Results are sorted by count descending, then by
// genre name ascending.
func TopGenres(tracks []Track) []GenreCount {
	counts := make(map[string]int)
	for _, t := range tracks {
		if t.PrimaryGenre == "" {
			continue
		}
		counts[t.PrimaryGenre]++
	}

	out := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		out = append(out, GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}
