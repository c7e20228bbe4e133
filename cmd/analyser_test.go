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
	"strings"
	"testing"

	"github.com/tastemap/playlist-tools/internal/profile"
)

func testStats() *profile.Stats {
	return &profile.Stats{
		TopUniqueGenres: []profile.GenreCount{
			{Genre: "Jazz", Count: 2},
			{Genre: "Lo-fi", Count: 1},
		},
		DiscoveryTrend: []profile.TrendPoint{
			{Month: "2023-01", Count: 2},
		},
		ActivityTrend: []profile.TrendPoint{
			{Month: "2023-01", Count: 3},
			{Month: "2023-03", Count: 1},
		},
		RareTracks: []profile.RareTrack{
			{Name: "Deep Cut", Artist: "Nobody", Pop: 3},
		},
		PlaylistRater: profile.Rating{
			Variety:     0.5,
			Cohesion:    0.8,
			RarityScore: 0.97,
			Creativity:  0.735,
			Overall:     0.75,
		},
		Meta: profile.Meta{Hash: "deadbeef", Rows: 4},
	}
}

func TestTopGenresAnalyser(t *testing.T) {
	analysis, err := TopGenresAnalyser{}.GetResults(testStats())
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}

	out := analysis.String()
	if !strings.Contains(out, "Jazz") || !strings.Contains(out, "2") {
		t.Errorf("Output missing genre rows:\n%s", out)
	}
	if !strings.Contains(out, "Found 2 genres across 4 rows") {
		t.Errorf("Output missing summary:\n%s", out)
	}
}

func TestRareTracksAnalyser(t *testing.T) {
	analysis, err := RareTracksAnalyser{}.GetResults(testStats())
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}

	out := analysis.String()
	if !strings.Contains(out, "Deep Cut") || !strings.Contains(out, "Nobody") {
		t.Errorf("Output missing track row:\n%s", out)
	}
}

func TestTrendsAnalyser(t *testing.T) {
	analysis, err := TrendsAnalyser{}.GetResults(testStats())
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}
	// Header plus one row per active month.
	if len(analysis.results) != 3 {
		t.Fatalf("got %d result rows, want 3", len(analysis.results))
	}
	if analysis.results[1][0] != "2023-01" || analysis.results[1][1] != "3" || analysis.results[1][2] != "2" {
		t.Errorf("got first month row %v", analysis.results[1])
	}
	// 2023-03 had activity but no discoveries.
	if analysis.results[2][2] != "0" {
		t.Errorf("got discovered %s for 2023-03, want 0", analysis.results[2][2])
	}
}

func TestTrendsAnalyser_bounded(t *testing.T) {
	analyser := TrendsAnalyser{From: "2023-02", To: "2023-12"}
	analysis, err := analyser.GetResults(testStats())
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}
	if len(analysis.results) != 2 {
		t.Fatalf("got %d result rows, want 2", len(analysis.results))
	}
	if analysis.results[1][0] != "2023-03" {
		t.Errorf("got month %s, want 2023-03", analysis.results[1][0])
	}
}

func TestRatingAnalyser(t *testing.T) {
	analysis, err := RatingAnalyser{}.GetResults(testStats())
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}

	out := analysis.String()
	if !strings.Contains(out, "75.0") {
		t.Errorf("Output missing overall score on the 0-100 scale:\n%s", out)
	}
	if !strings.Contains(out, "97.0") {
		t.Errorf("Output missing rarity score:\n%s", out)
	}
}

func TestGetAnalyserFromName(t *testing.T) {
	for _, name := range []string{"top-genres", "rare-tracks", "trends", "rating"} {
		if _, err := getAnalyserFromName(name); err != nil {
			t.Errorf("getAnalyserFromName(%q): %v", name, err)
		}
	}

	if _, err := getAnalyserFromName("top-artists"); err == nil {
		t.Error("Expected error for unknown analyser name")
	}
}

func TestGenerateEmailContent(t *testing.T) {
	config := SendEmailConfig{Profile: "roadtrip"}
	analysers := []Analyser{TopGenresAnalyser{}, RatingAnalyser{}}

	subject, body, err := generateEmailContent(config, testStats(), analysers)
	if err != nil {
		t.Fatalf("generateEmailContent: %v", err)
	}

	if subject != "Taste profile for roadtrip" {
		t.Errorf("got subject %q", subject)
	}
	if !strings.Contains(body, "<h2>Top genres for roadtrip:</h2>") {
		t.Errorf("Body missing genres heading:\n%s", body)
	}
	if !strings.Contains(body, "<td>Jazz</td>") {
		t.Errorf("Body missing genre cell:\n%s", body)
	}
	if !strings.Contains(body, "75.0") {
		t.Errorf("Body missing rating score:\n%s", body)
	}
}

func TestGenerateEmailContent_empty(t *testing.T) {
	config := SendEmailConfig{Profile: "empty"}
	stats := &profile.Stats{}

	_, body, err := generateEmailContent(config, stats, []Analyser{TopGenresAnalyser{}})
	if err != nil {
		t.Fatalf("generateEmailContent: %v", err)
	}
	if !strings.Contains(body, "No tracks found.") {
		t.Errorf("Body missing empty placeholder:\n%s", body)
	}
}
