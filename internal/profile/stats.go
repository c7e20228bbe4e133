package profile

import (
	"fmt"
	"sort"
	"time"

	"github.com/tastemap/playlist-tools/internal/checksum"
	"github.com/tastemap/playlist-tools/internal/ingest"
)

// Stats is the final immutable aggregate for one profile. It is created once
// per compute invocation and never mutated afterwards.
type Stats struct {
	TopUniqueGenres []GenreCount `yaml:"topUniqueGenres" json:"topUniqueGenres"`
	DiscoveryTrend  []TrendPoint `yaml:"discoveryTrend" json:"discoveryTrend"`
	ActivityTrend   []TrendPoint `yaml:"activityTrend" json:"activityTrend"`
	RareTracks      []RareTrack  `yaml:"rareTracks" json:"rareTracks"`
	Taste           TasteVector  `yaml:"taste" json:"taste"`
	PlaylistRater   Rating       `yaml:"playlistRater" json:"playlistRater"`
	Meta            Meta         `yaml:"meta" json:"meta"`
}

// Meta carries the content hash used as a cache key, the ingested row count,
// and the observed date window.
type Meta struct {
	Hash   string `yaml:"hash" json:"hash"`
	Rows   int    `yaml:"rows" json:"rows"`
	Window Window `yaml:"window" json:"window"`
}

// Window is the earliest/latest resolvable added-at date across all rows,
// formatted as 2006-01-02. Both fields are empty when no row had a
// resolvable date.
type Window struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// Builder computes Stats from ingested sources.
type Builder struct {
	Weights   Weights
	RareLimit int
	// Analyzer is applied to every normalized track. Nil means pass-through.
	Analyzer Analyzer
}

// NewBuilder returns a Builder with default weights and rarity limit.
func NewBuilder() *Builder {
	return &Builder{
		Weights:   DefaultWeights(),
		RareLimit: DefaultRareLimit,
	}
}

// aggregate is the intermediate state between normalization and assembly.
type aggregate struct {
	set      *TrackSet
	activity []time.Time
	rows     int
}

// Compute runs the whole pipeline: normalize, deduplicate, aggregate. It is
// total: malformed rows degrade to exclusion, and only the typed conditions
// in errors.go (or a genuinely unexpected internal failure) surface as
// errors. Sources must be in deterministic order; ingest guarantees
// lexicographic file-name order.
func (b *Builder) Compute(sources []ingest.Source) (*Stats, error) {
	agg, err := b.normalizeGuarded(sources)
	if err != nil {
		return nil, err
	}
	return b.assembleGuarded(agg)
}

// normalizeGuarded converts a panic during normalization into an error, so a
// misbehaving injected Analyzer cannot take down the caller.
func (b *Builder) normalizeGuarded(sources []ingest.Source) (agg *aggregate, err error) {
	defer func() {
		if r := recover(); r != nil {
			agg = nil
			err = fmt.Errorf("computing stats: %v", r)
		}
	}()
	return b.normalize(sources)
}

func (b *Builder) assembleGuarded(agg *aggregate) (stats *Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			stats = nil
			err = fmt.Errorf("computing stats: %v", r)
		}
	}()
	return b.assemble(agg), nil
}

func (b *Builder) normalize(sources []ingest.Source) (*aggregate, error) {
	if len(sources) == 0 {
		return nil, ErrNoSourceData
	}

	empty := true
	for _, src := range sources {
		if len(src.Header) > 0 || len(src.Rows) > 0 {
			empty = false
			break
		}
	}
	if empty {
		return nil, ErrNoSourceData
	}

	usable := false
	for _, src := range sources {
		if hasUsableColumns(src.Header) {
			usable = true
			break
		}
	}

	if !usable {
		return nil, ErrNoUsableColumns
	}

	// Files whose every row was filtered out still count as present data:
	// that case yields empty aggregates, not a failure.
	agg := &aggregate{set: NewTrackSet()}
	for _, src := range sources {
		agg.rows += len(src.Rows)
	}

	analyzer := b.Analyzer
	if analyzer == nil {
		analyzer = PassthroughAnalyzer()
	}

	// "First seen" in the merge policy means first in lexicographic source
	// order, so the outcome cannot depend on how the caller happened to
	// order (or concurrently load) the files.
	ordered := make([]ingest.Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	for _, src := range ordered {
		for _, row := range src.Rows {
			t, ok := Normalize(row, src.Name)
			if !ok {
				continue
			}
			t = analyzer.Analyze(t)
			if !t.AddedAt.IsZero() {
				agg.activity = append(agg.activity, t.AddedAt)
			}
			agg.set.Add(t)
		}
	}
	return agg, nil
}

func (b *Builder) assemble(agg *aggregate) *Stats {
	tracks := agg.set.Tracks()

	stats := &Stats{
		TopUniqueGenres: TopGenres(tracks),
		DiscoveryTrend:  DiscoveryTrend(tracks),
		ActivityTrend:   ActivityTrend(agg.activity),
		RareTracks:      RareTracks(tracks, b.RareLimit),
		Taste:           BuildTaste(tracks),
		PlaylistRater:   Rate(tracks, b.Weights),
		Meta: Meta{
			Hash: checksum.OfIDs(agg.set.IDs()),
			Rows: agg.rows,
		},
	}

	for _, d := range agg.activity {
		day := d.Format("2006-01-02")
		if stats.Meta.Window.Start == "" || day < stats.Meta.Window.Start {
			stats.Meta.Window.Start = day
		}
		if day > stats.Meta.Window.End {
			stats.Meta.Window.End = day
		}
	}
	return stats
}
