package profile

import "sort"

// DefaultRareLimit is the number of rare tracks reported when the caller
// does not configure one.
const DefaultRareLimit = 10

// RareTrack is one entry of the rarity ranking.
type RareTrack struct {
	Name   string `yaml:"name" json:"name"`
	Artist string `yaml:"artist" json:"artist"`
	Pop    int    `yaml:"pop" json:"pop"`
}

// RareTracks returns the limit unique tracks with the lowest popularity,
// ascending, ties broken by track name then artist. A missing popularity
// value was normalized to 0, so absent data sorts first; callers wanting
// "truly rare" semantics need to be aware of that default.
func RareTracks(tracks []Track, limit int) []RareTrack {
	if limit <= 0 {
		limit = DefaultRareLimit
	}

	ranked := make([]Track, len(tracks))
	copy(ranked, tracks)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Popularity != ranked[j].Popularity {
			return ranked[i].Popularity < ranked[j].Popularity
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].Artist < ranked[j].Artist
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]RareTrack, 0, len(ranked))
	for _, t := range ranked {
		out = append(out, RareTrack{Name: t.Name, Artist: t.Artist, Pop: t.Popularity})
	}
	return out
}
