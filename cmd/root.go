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
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/tastemap/playlist-tools/internal/ingest"
	"github.com/tastemap/playlist-tools/internal/profile"
	"github.com/tastemap/playlist-tools/internal/store"
)

var cfgFile string
var dataPath string
var profileName string
var databasePath string
var noCache bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "playlist-tools",
	Short: "Performs analysis on playlist export data",
	Long:  `Ingests playlist export files and computes taste profiles from them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.playlist-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&dataPath, "data", "D", "./data", "Directory of export files (or a single file)")
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.PersistentFlags().StringVarP(
		&profileName, "profile", "p", "default", "Profile name to act on")
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./playlist-tools.db", "Path to the SQLite stats cache")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().BoolVar(
		&noCache, "no-cache", false, "Always recompute instead of using the stats cache")
	viper.BindPFlag("no_cache", rootCmd.PersistentFlags().Lookup("no-cache"))

	viper.SetDefault("weights.creativity_variety", 0.5)
	viper.SetDefault("weights.creativity_rarity", 0.5)
	viper.SetDefault("weights.overall_variety", 0.25)
	viper.SetDefault("weights.overall_cohesion", 0.25)
	viper.SetDefault("weights.overall_rarity", 0.25)
	viper.SetDefault("weights.overall_creativity", 0.25)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".playlist-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".playlist-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func weightsFromConfig() (profile.Weights, error) {
	w := profile.Weights{
		CreativityVariety: viper.GetFloat64("weights.creativity_variety"),
		CreativityRarity:  viper.GetFloat64("weights.creativity_rarity"),
		OverallVariety:    viper.GetFloat64("weights.overall_variety"),
		OverallCohesion:   viper.GetFloat64("weights.overall_cohesion"),
		OverallRarity:     viper.GetFloat64("weights.overall_rarity"),
		OverallCreativity: viper.GetFloat64("weights.overall_creativity"),
	}
	if err := w.Validate(); err != nil {
		return profile.Weights{}, fmt.Errorf("validating weights: %w", err)
	}
	return w, nil
}

func newBuilder() (*profile.Builder, error) {
	weights, err := weightsFromConfig()
	if err != nil {
		return nil, err
	}
	b := profile.NewBuilder()
	b.Weights = weights
	return b, nil
}

func newLoader(log *slog.Logger) *ingest.Loader {
	return &ingest.Loader{
		Require: profile.IdentityColumns(),
		Log:     log,
	}
}

// newService wires the pipeline the same way for every command. The data
// flag may point at the profile root (directory of profiles), a single
// profile directory, or one export file; resolution tries the profile
// subdirectory first and falls back to the path itself.
func newService(log *slog.Logger) (*profile.Service, func(), error) {
	builder, err := newBuilder()
	if err != nil {
		return nil, nil, err
	}

	svc := &profile.Service{
		Resolve: resolveData,
		Loader:  newLoader(log),
		Builder: builder,
		Log:     log,
	}

	cleanup := func() {}
	if !viper.GetBool("no_cache") {
		cache, err := store.New(viper.GetString("database"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening stats cache: %w", err)
		}
		svc.Cache = cache
		cleanup = func() { cache.Close() }
	}
	return svc, cleanup, nil
}

func resolveData(name string) (string, error) {
	root := viper.GetString("data")
	resolve := profile.DirResolver(root)
	path, err := resolve(name)
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return path, nil
	}
	// No per-profile subdirectory: treat the data path itself as the
	// profile's source. Covers the single-file and flat-directory setups.
	return root, nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
