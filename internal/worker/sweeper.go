package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/estatehub/backend-go/internal/storage"
)

// ImageLister returns every image URL referenced by a listing
type ImageLister interface {
	ListImageURLs(ctx context.Context) ([]string, error)
}

// OrphanSweeper deletes stored photos that no listing references once they
// are older than the grace period. Uploads made for a listing that was never
// created are the usual source of orphans.
type OrphanSweeper struct {
	store    storage.Store
	images   ImageLister
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewOrphanSweeper creates a sweeper; it does nothing until Start is called
func NewOrphanSweeper(store storage.Store, images ImageLister, ttl, interval time.Duration, logger *slog.Logger) *OrphanSweeper {
	return &OrphanSweeper{
		store:    store,
		images:   images,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Start schedules the sweep on the pool. A zero TTL leaves orphans in place.
func (s *OrphanSweeper) Start(pool *Pool) bool {
	if s.ttl <= 0 || s.interval <= 0 {
		s.logger.Info("ℹ️ [Sweeper] Orphaned upload cleanup disabled")
		return false
	}

	s.logger.Info("🧹 [Sweeper] Orphaned upload cleanup enabled", "ttl", s.ttl, "interval", s.interval)
	pool.Every(s.interval, func(ctx context.Context) {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("❌ [Sweeper] Sweep failed", "error", err)
		}
	})
	return true
}

// Sweep runs one pass and returns how many photos were deleted
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	urls, err := s.images.ListImageURLs(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		if key, ok := s.store.KeyFromURL(url); ok {
			referenced[key] = struct{}{}
		}
	}

	objects, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.ttl)
	deleted := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			s.logger.Warn("⚠️ [Sweeper] Could not delete orphan", "key", obj.Key, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("🧹 [Sweeper] Removed orphaned uploads", "count", deleted)
	}
	return deleted, nil
}
