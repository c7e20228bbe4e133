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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tastemap/playlist-tools/internal/api"
	"github.com/tastemap/playlist-tools/internal/store"
)

var serveAddr string
var serveLogFile string
var serveRateLimit float64
var serveRateBurst int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves taste profiles over HTTP",
	Long: `Starts an HTTP server exposing computed stats per profile. Cached entries
for a profile are dropped when its export files change on disk.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runServer(cmd.Context())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Rotating log file (default is stderr)")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 10, "Requests per second (0 disables limiting)")
	serveCmd.Flags().IntVar(&serveRateBurst, "rate-burst", 20, "Rate limit burst size")
}

func serveLogger() *slog.Logger {
	if serveLogFile == "" {
		return newLogger()
	}
	return slog.New(slog.NewTextHandler(&lumberjack.Logger{
		Filename:   serveLogFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, nil))
}

func runServer(ctx context.Context) error {
	log := serveLogger()

	svc, cleanup, err := newService(log)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataRoot := viper.GetString("data")
	if cache, ok := svc.Cache.(*store.Cache); ok {
		watcher, err := watchData(ctx, dataRoot, cache, log)
		if err != nil {
			log.Warn("data watcher unavailable", slog.String("error", err.Error()))
		} else {
			defer watcher.Close()
		}
	}

	var limiter *rate.Limiter
	if serveRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(serveRateLimit), serveRateBurst)
	}

	handler := api.NewHandler(svc, api.NewMetrics(), log)
	server := &http.Server{
		Addr:              serveAddr,
		Handler:           api.NewRouter(handler, log, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", serveAddr), slog.String("data", dataRoot))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// watchData invalidates cached stats for a profile when anything under its
// directory changes. New entries are keyed by content hash, so a stale row
// would never be served anyway; dropping it just keeps the cache small.
func watchData(ctx context.Context, root string, cache *store.Cache, log *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	entries, err := os.ReadDir(root)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				watcher.Add(filepath.Join(root, entry.Name()))
			}
		}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				profileName := profileForPath(root, event.Name)
				if profileName == "" {
					continue
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						watcher.Add(event.Name)
					}
				}
				log.Info("data changed, invalidating cache",
					slog.String("profile", profileName), slog.String("path", event.Name))
				if err := cache.DeleteProfile(profileName); err != nil {
					log.Warn("cache invalidation failed",
						slog.String("profile", profileName), slog.String("error", err.Error()))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", slog.String("error", err.Error()))
			}
		}
	}()

	return watcher, nil
}

// profileForPath maps a changed path to the profile directory it belongs to.
func profileForPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) == 0 || parts[0] == "." {
		return ""
	}
	return parts[0]
}
