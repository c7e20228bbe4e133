package profile

import (
	"reflect"
	"testing"
)

func TestRareTracksOrdering(t *testing.T) {
	tracks := []Track{
		{ID: "1", Name: "B", Artist: "X", Popularity: 0},
		{ID: "2", Name: "A", Artist: "Y", Popularity: 0},
		{ID: "3", Name: "C", Artist: "Z", Popularity: 100},
	}

	got := RareTracks(tracks, 10)
	want := []RareTrack{
		{Name: "A", Artist: "Y", Pop: 0},
		{Name: "B", Artist: "X", Pop: 0},
		{Name: "C", Artist: "Z", Pop: 100},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RareTracks = %v, want %v", got, want)
	}
}

func TestRareTracksTieOnNameBrokenByArtist(t *testing.T) {
	tracks := []Track{
		{ID: "1", Name: "Same", Artist: "Zed", Popularity: 5},
		{ID: "2", Name: "Same", Artist: "Abe", Popularity: 5},
	}
	got := RareTracks(tracks, 10)
	if got[0].Artist != "Abe" {
		t.Errorf("tie order = %v, want Abe first", got)
	}
}

func TestRareTracksLimit(t *testing.T) {
	var tracks []Track
	for i := 0; i < 15; i++ {
		tracks = append(tracks, Track{ID: string(rune('a' + i)), Name: string(rune('a' + i)), Popularity: i})
	}

	got := RareTracks(tracks, 0) // 0 falls back to the default
	if len(got) != DefaultRareLimit {
		t.Errorf("len = %d, want %d", len(got), DefaultRareLimit)
	}
	if got[0].Pop != 0 || got[len(got)-1].Pop != DefaultRareLimit-1 {
		t.Errorf("unexpected popularity range: %v", got)
	}
}

func TestRareTracksDoesNotMutateInput(t *testing.T) {
	tracks := []Track{
		{ID: "1", Name: "Z", Popularity: 90},
		{ID: "2", Name: "A", Popularity: 10},
	}
	RareTracks(tracks, 10)
	if tracks[0].Name != "Z" {
		t.Errorf("input slice was reordered: %v", tracks)
	}
}
