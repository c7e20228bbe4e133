package profile

import "sort"

// TrackSet deduplicates tracks by identity key. Duplicate sightings merge:
// the earliest AddedAt wins, first-seen feature values are retained, and
// Sources accumulates every originating playlist.
type TrackSet struct {
	byID map[string]*Track
}

func NewTrackSet() *TrackSet {
	return &TrackSet{byID: make(map[string]*Track)}
}

// Add inserts t, or merges it into the existing entry with the same ID.
func (s *TrackSet) Add(t Track) {
	existing, ok := s.byID[t.ID]
	if !ok {
		copied := t
		copied.Sources = append([]string(nil), t.Sources...)
		s.byID[t.ID] = &copied
		return
	}

	if !t.AddedAt.IsZero() && (existing.AddedAt.IsZero() || t.AddedAt.Before(existing.AddedAt)) {
		existing.AddedAt = t.AddedAt
	}
	for _, src := range t.Sources {
		if !containsString(existing.Sources, src) {
			existing.Sources = append(existing.Sources, src)
		}
	}
}

func (s *TrackSet) Len() int {
	return len(s.byID)
}

// IDs returns the identity keys in unspecified order.
func (s *TrackSet) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	return ids
}

// Tracks returns the unique tracks sorted by identity key. Every aggregate
// downstream is defined over this sorted slice, which is what makes the
// pipeline independent of ingestion order.
func (s *TrackSet) Tracks() []Track {
	tracks := make([]Track, 0, len(s.byID))
	for _, t := range s.byID {
		copied := *t
		copied.Sources = append([]string(nil), t.Sources...)
		sort.Strings(copied.Sources)
		tracks = append(tracks, copied)
	}
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].ID < tracks[j].ID
	})
	return tracks
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
