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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tastemap/playlist-tools/internal/profile"
)

var rareNumber int
var rareCmd = &cobra.Command{
	Use:   "rare",
	Short: "Gets the profile's least popular tracks",
	Long:  `Ranks unique tracks by ascending popularity. Tracks without a popularity value sort first.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printRare(cmd.Context(), rareNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(rareCmd)

	rareCmd.Flags().IntVarP(&rareNumber, "number", "n", profile.DefaultRareLimit, "number of results to return")
}

func printRare(ctx context.Context, numToReturn int) error {
	log := newLogger()
	svc, cleanup, err := newService(log)
	if err != nil {
		return err
	}
	defer cleanup()

	svc.Builder.RareLimit = numToReturn
	// Cached entries hold the default-limit ranking, so a custom limit has
	// to recompute.
	if numToReturn != profile.DefaultRareLimit {
		svc.Cache = nil
	}

	stats, err := svc.Stats(ctx, viper.GetString("profile"))
	if err != nil {
		return fmt.Errorf("computing stats: %w", err)
	}

	analysis, err := RareTracksAnalyser{}.GetResults(stats)
	if err != nil {
		return err
	}
	fmt.Println(analysis)
	return nil
}
