/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/tastemap/playlist-tools/internal/profile"
)

type Analysis struct {
	results [][]string
	summary string
}

type Analyser interface {
	GetResults(stats *profile.Stats) (Analysis, error)

	GetName() string
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header(a.results[0])
	for _, row := range a.results[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

type TopGenresAnalyser struct{}

func (TopGenresAnalyser) GetName() string {
	return "Top genres"
}

func (TopGenresAnalyser) GetResults(stats *profile.Stats) (analysis Analysis, err error) {
	analysis.results = [][]string{{"Genre", "Tracks"}}
	for _, g := range stats.TopUniqueGenres {
		analysis.results = append(analysis.results, []string{g.Genre, strconv.Itoa(g.Count)})
	}
	analysis.summary = fmt.Sprintf("Found %d genres across %d rows\n",
		len(stats.TopUniqueGenres), stats.Meta.Rows)
	return
}

type RareTracksAnalyser struct{}

func (RareTracksAnalyser) GetName() string {
	return "Rare tracks"
}

func (RareTracksAnalyser) GetResults(stats *profile.Stats) (analysis Analysis, err error) {
	analysis.results = [][]string{{"Track", "Artist", "Popularity"}}
	for _, r := range stats.RareTracks {
		analysis.results = append(analysis.results,
			[]string{r.Name, r.Artist, strconv.Itoa(r.Pop)})
	}
	analysis.summary = fmt.Sprintf("Showing the %d least popular tracks\n", len(stats.RareTracks))
	return
}

type TrendsAnalyser struct {
	// From/To bound the months shown, inclusive, in 2006-01 form. Empty
	// means unbounded.
	From string
	To   string
}

func (TrendsAnalyser) GetName() string {
	return "Monthly trends"
}

func (t TrendsAnalyser) GetResults(stats *profile.Stats) (analysis Analysis, err error) {
	discovered := make(map[string]int, len(stats.DiscoveryTrend))
	for _, p := range stats.DiscoveryTrend {
		discovered[p.Month] = p.Count
	}

	analysis.results = [][]string{{"Month", "Added", "Discovered"}}
	shown := 0
	for _, p := range stats.ActivityTrend {
		if t.From != "" && p.Month < t.From {
			continue
		}
		if t.To != "" && p.Month > t.To {
			continue
		}
		analysis.results = append(analysis.results, []string{
			p.Month, strconv.Itoa(p.Count), strconv.Itoa(discovered[p.Month]),
		})
		shown++
	}
	analysis.summary = fmt.Sprintf("Showing %d months with activity\n", shown)
	return
}

type RatingAnalyser struct{}

func (RatingAnalyser) GetName() string {
	return "Playlist rating"
}

func (RatingAnalyser) GetResults(stats *profile.Stats) (analysis Analysis, err error) {
	r := stats.PlaylistRater
	analysis.results = [][]string{
		{"Dimension", "Score"},
		{"Variety", formatScore(r.Variety)},
		{"Cohesion", formatScore(r.Cohesion)},
		{"Rarity", formatScore(r.RarityScore)},
		{"Creativity", formatScore(r.Creativity)},
		{"Overall", formatScore(r.Overall)},
	}
	analysis.summary = fmt.Sprintf("Overall rating %s/100 over %d rows\n",
		formatScore(r.Overall), stats.Meta.Rows)
	return
}

// formatScore renders a 0-1 score on the 0-100 display scale.
func formatScore(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64)
}

func getAnalyserFromName(name string) (Analyser, error) {
	analyserMap := map[string]Analyser{
		"top-genres":  TopGenresAnalyser{},
		"rare-tracks": RareTracksAnalyser{},
		"trends":      TrendsAnalyser{},
		"rating":      RatingAnalyser{},
	}

	analyser, ok := analyserMap[name]
	if !ok {
		return nil, fmt.Errorf("Invalid analysis_name: %s", name)
	}

	return analyser, nil
}
