package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/tastemap/playlist-tools/internal/checksum"
	"github.com/tastemap/playlist-tools/internal/ingest"
)

// Cache stores serialized Stats keyed by profile and content hash. Get
// returns (nil, nil) on a miss.
type Cache interface {
	Get(profile, hash string) ([]byte, error)
	Put(profile, hash string, payload []byte) error
}

// Resolver maps a profile name to the directory or file holding its export
// data. The discovery policy lives with the caller, not the pipeline.
type Resolver func(profile string) (string, error)

// DirResolver resolves each profile to a subdirectory of root.
func DirResolver(root string) Resolver {
	return func(profile string) (string, error) {
		return filepath.Join(root, profile), nil
	}
}

// Service wires the ingestion pipeline, the stats builder, and an optional
// cache together. All collaborators are explicit: construct one per
// composition root rather than sharing hidden globals.
type Service struct {
	Resolve Resolver
	Loader  *ingest.Loader
	Builder *Builder
	// Cache is optional. A read failure falls back to recomputation; a
	// write failure is logged and swallowed, since the computed value is
	// still valid.
	Cache Cache
	Log   *slog.Logger
}

func (s *Service) log() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

func (s *Service) builder() *Builder {
	if s.Builder == nil {
		return NewBuilder()
	}
	return s.Builder
}

// Stats computes (or serves from cache) the aggregate profile for one
// profile name. Two concurrent invocations do not coordinate; recomputation
// is idempotent.
func (s *Service) Stats(ctx context.Context, profileName string) (*Stats, error) {
	path, err := s.Resolve(profileName)
	if err != nil {
		return nil, fmt.Errorf("resolving profile %q: %w", profileName, err)
	}

	sources, err := s.Loader.Load(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("profile %q: %w", profileName, ErrNoSourceData)
		}
		return nil, fmt.Errorf("ingesting %q: %w", profileName, err)
	}

	agg, err := s.builder().normalizeGuarded(sources)
	if err != nil {
		return nil, err
	}

	hash := checksum.OfIDs(agg.set.IDs())
	if cached := s.fromCache(profileName, hash); cached != nil {
		return cached, nil
	}

	stats, err := s.builder().assembleGuarded(agg)
	if err != nil {
		return nil, err
	}
	s.toCache(profileName, hash, stats)
	return stats, nil
}

func (s *Service) fromCache(profileName, hash string) *Stats {
	if s.Cache == nil {
		return nil
	}
	payload, err := s.Cache.Get(profileName, hash)
	if err != nil {
		s.log().Warn("cache read failed, recomputing",
			slog.String("profile", profileName), slog.String("error", err.Error()))
		return nil
	}
	if payload == nil {
		return nil
	}
	var stats Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		s.log().Warn("discarding undecodable cache entry",
			slog.String("profile", profileName), slog.String("error", err.Error()))
		return nil
	}
	return &stats
}

func (s *Service) toCache(profileName, hash string, stats *Stats) {
	if s.Cache == nil {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		s.log().Warn("encoding stats for cache failed",
			slog.String("profile", profileName), slog.String("error", err.Error()))
		return
	}
	if err := s.Cache.Put(profileName, hash, payload); err != nil {
		s.log().Warn("cache write failed",
			slog.String("profile", profileName), slog.String("error", err.Error()))
	}
}
