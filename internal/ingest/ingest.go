package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSuffix  = ".csv"
	defaultWorkers = 4
	defaultRetries = 3
)

// Source holds the parsed rows of one playlist export file.
type Source struct {
	// Name is the file base name without its extension.
	Name   string
	Header []string
	Rows   []Row
}

// Loader reads a directory of playlist export files, or a single consolidated
// file, into Sources. The zero value is usable.
type Loader struct {
	// Require lists columns that must be non-empty per row, when the column
	// appears in a file's header. Rows violating this are dropped.
	Require []string

	// Suffix selects source files inside a directory. Defaults to ".csv".
	Suffix string

	// Workers bounds the per-file read concurrency. Defaults to 4. The
	// result is assembled in lexicographic file-name order regardless of
	// which worker finishes first.
	Workers int

	Log *slog.Logger
}

func (l *Loader) suffix() string {
	if l.Suffix == "" {
		return defaultSuffix
	}
	return l.Suffix
}

func (l *Loader) workers() int {
	if l.Workers <= 0 {
		return defaultWorkers
	}
	return l.Workers
}

func (l *Loader) log() *slog.Logger {
	if l.Log == nil {
		return slog.Default()
	}
	return l.Log
}

// Load reads path, which may be a directory of export files or a single
// consolidated file.
func (l *Loader) Load(ctx context.Context, path string) ([]Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return l.LoadDir(ctx, path)
	}
	src, err := l.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return []Source{src}, nil
}

// LoadDir parses every matching file under dir, in lexicographic file-name
// order. A single unreadable file is logged and skipped; it never aborts
// the rest. Cancelling ctx abandons the pass and returns the ctx error.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), l.suffix()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	results := make([]*Source, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())

	for i, name := range names {
		g.Go(func() error {
			src, err := l.LoadFile(gctx, filepath.Join(dir, name))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				l.log().Warn("skipping unreadable source file",
					slog.String("file", name), slog.String("error", err.Error()))
				return nil
			}
			results[i] = &src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}

	sources := make([]Source, 0, len(results))
	for _, src := range results {
		if src != nil {
			sources = append(sources, *src)
		}
	}
	return sources, nil
}

// LoadFile parses a single export file. Transient read errors are retried a
// few times before the file is given up on.
func (l *Loader) LoadFile(ctx context.Context, path string) (Source, error) {
	var data []byte
	err := retry.Do(
		func() error {
			var err error
			data, err = os.ReadFile(path)
			return err
		},
		retry.Attempts(defaultRetries),
		retry.Delay(50*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return Source{}, fmt.Errorf("reading %s: %w", path, err)
	}

	header, rows := ParseTable(data, l.Require)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Source{Name: name, Header: header, Rows: rows}, nil
}
