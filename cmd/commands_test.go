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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const testExport = `Track ID,Track Name,Artist Name,Genres,Popularity,Added At
t1,Blue Calm,Miles Ahead,Jazz|Cool,12,2023-01-05
t2,Night Drive,Miles Ahead,Jazz,45,2023-01-20
t3,Rain Loop,Chill Unit,Lo-fi,3,2023-03-02
`

func setupTestData(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	profileDir := filepath.Join(tmpDir, "data", "mix")
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(profileDir, "export.csv"), []byte(testExport), 0o644); err != nil {
		t.Fatal(err)
	}

	viper.Set("data", filepath.Join(tmpDir, "data"))
	viper.Set("profile", "mix")
	viper.Set("database", filepath.Join(tmpDir, "test.db"))
	viper.Set("no_cache", false)
	t.Cleanup(func() {
		viper.Set("data", nil)
		viper.Set("profile", nil)
		viper.Set("database", nil)
		viper.Set("no_cache", nil)
	})

	return tmpDir
}

func TestPrintStats(t *testing.T) {
	setupTestData(t)

	var out bytes.Buffer
	if err := printStats(context.Background(), &out); err != nil {
		t.Fatalf("printStats: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"topUniqueGenres:",
		"genre: Jazz",
		"count: 2",
		"genre: Lo-fi",
		"rows: 3",
		"hash:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintStats_missingProfile(t *testing.T) {
	setupTestData(t)
	viper.Set("profile", "nonexistent")
	viper.Set("data", filepath.Join(t.TempDir(), "nothing"))

	var out bytes.Buffer
	if err := printStats(context.Background(), &out); err == nil {
		t.Fatal("Expected error for missing profile data")
	}
}

func TestPrintAnalysis(t *testing.T) {
	setupTestData(t)

	var out bytes.Buffer
	if err := printAnalysis(context.Background(), &out, TopGenresAnalyser{}); err != nil {
		t.Fatalf("printAnalysis: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Jazz") {
		t.Errorf("Output missing genre:\n%s", got)
	}
	if !strings.Contains(got, "Found 2 genres across 3 rows") {
		t.Errorf("Output missing summary:\n%s", got)
	}
}

func TestWeightsFromConfig_defaults(t *testing.T) {
	weights, err := weightsFromConfig()
	if err != nil {
		t.Fatalf("weightsFromConfig: %v", err)
	}
	if weights.OverallVariety != 0.25 {
		t.Errorf("got overall variety weight %v, want 0.25", weights.OverallVariety)
	}
	if weights.CreativityVariety != 0.5 {
		t.Errorf("got creativity variety weight %v, want 0.5", weights.CreativityVariety)
	}
}

func TestWeightsFromConfig_invalid(t *testing.T) {
	viper.Set("weights.overall_variety", 2.0)
	t.Cleanup(func() { viper.Set("weights.overall_variety", 0.25) })

	if _, err := weightsFromConfig(); err == nil {
		t.Fatal("Expected validation error for out-of-range weight")
	}
}

func TestResolveData(t *testing.T) {
	tmpDir := setupTestData(t)

	path, err := resolveData("mix")
	if err != nil {
		t.Fatalf("resolveData: %v", err)
	}
	if path != filepath.Join(tmpDir, "data", "mix") {
		t.Errorf("got %s, want the profile subdirectory", path)
	}

	// No subdirectory for this name: fall back to the data root.
	path, err = resolveData("other")
	if err != nil {
		t.Fatalf("resolveData: %v", err)
	}
	if path != filepath.Join(tmpDir, "data") {
		t.Errorf("got %s, want the data root", path)
	}
}
