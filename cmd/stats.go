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
	"gopkg.in/yaml.v3"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Computes the full taste profile",
	Long:  `Ingests the profile's export files and prints the aggregate stats as YAML.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printStats(cmd.Context(), os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printStats(ctx context.Context, out io.Writer) error {
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

	enc := yaml.NewEncoder(out)
	defer enc.Close()
	if err := enc.Encode(stats); err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	return nil
}
