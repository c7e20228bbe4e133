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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends [from] [to (optional)]",
	Short: "Gets monthly activity and discovery trends",
	Long: `Buckets the profile's rows by calendar month. With no arguments all months
are shown. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		analyser, err := trendsAnalyserFromArgs(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := printAnalysis(cmd.Context(), os.Stdout, analyser); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}

func trendsAnalyserFromArgs(args []string) (TrendsAnalyser, error) {
	if len(args) == 0 {
		return TrendsAnalyser{}, nil
	}

	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return TrendsAnalyser{}, err
	}
	// The range end is exclusive; month buckets are inclusive, so step back
	// into the last covered month.
	return TrendsAnalyser{
		From: start.Format("2006-01"),
		To:   end.AddDate(0, 0, -1).Format("2006-01"),
	}, nil
}
