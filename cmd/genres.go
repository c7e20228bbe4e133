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
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var topGenresCmd = &cobra.Command{
	Use:   "top-genres",
	Short: "Gets the profile's genre distribution",
	Long:  `Counts unique tracks per primary genre, most listened first.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printAnalysis(cmd.Context(), os.Stdout, TopGenresAnalyser{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topGenresCmd)
}

// printAnalysis runs the pipeline once and renders one analyser's table.
func printAnalysis(ctx context.Context, out io.Writer, analyser Analyser) error {
	log := newLogger()
	svc, cleanup, err := newService(log)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := svc.Stats(ctx, viper.GetString("profile"))
	if err != nil {
		return fmt.Errorf("computing stats: %w", err)
	}

	analysis, err := analyser.GetResults(stats)
	if err != nil {
		return fmt.Errorf("getting results for %s: %w", analyser.GetName(), err)
	}
	fmt.Fprintln(out, analysis)
	return nil
}
