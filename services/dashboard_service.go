package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"werkzeugverwaltung/cache"
	"werkzeugverwaltung/reconcile"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

// SnapshotCache is implemented by cache.SnapshotCache; Get reports a miss
// with cache.ErrMiss.
type SnapshotCache interface {
	Get(ctx context.Context) (*store.Snapshot, error)
	Version(ctx context.Context) (int64, error)
	Put(ctx context.Context, version int64, snap *store.Snapshot) error
	Invalidate(ctx context.Context) error
}

type DashboardOptions struct {
	// zero values fall back to the service defaults
	InspectionHorizonDays int
	ActivityLimit         int
}

type DashboardService struct {
	store   *store.Store
	cache   SnapshotCache
	engine  *reconcile.Engine
	log     *zap.Logger
	now     func() time.Time
	horizon int
	limit   int
}

// NewDashboardService reads through c when it is non-nil.
func NewDashboardService(s *store.Store, c SnapshotCache, r refs.Resolver, log *zap.Logger, horizonDays, activityLimit int) *DashboardService {
	return &DashboardService{
		store:   s,
		cache:   c,
		engine:  reconcile.New(r),
		log:     log,
		now:     time.Now,
		horizon: horizonDays,
		limit:   activityLimit,
	}
}

func (s *DashboardService) SetClock(now func() time.Time) { s.now = now }

func (s *DashboardService) Load(ctx context.Context, opts DashboardOptions) (*reconcile.Result, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	o := reconcile.DefaultOptions(s.now())
	o.InspectionHorizonDays = firstPositive(opts.InspectionHorizonDays, s.horizon)
	o.ActivityLimit = firstPositive(opts.ActivityLimit, s.limit)
	return s.engine.Run(snap, o), nil
}

// Snapshot returns the cached snapshot or fetches all five collections.
// Cache failures are logged and fall through to the store.
func (s *DashboardService) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	if s.cache == nil {
		return s.fetch(ctx)
	}
	snap, err := s.cache.Get(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("snapshot cache read failed", zap.Error(err))
	}
	version, verr := s.cache.Version(ctx)
	snap, err = s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if verr == nil {
		if err := s.cache.Put(ctx, version, snap); err != nil {
			s.log.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot; wired as the store mutation hook.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("snapshot cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) fetch(ctx context.Context) (*store.Snapshot, error) {
	start := time.Now()
	snap, err := store.FetchSnapshot(ctx, s.store)
	if err != nil {
		s.log.Error("loading records failed", zap.Error(err))
		return nil, err
	}
	s.log.Debug("records loaded",
		zap.Int("tools", len(snap.Tools)),
		zap.Int("checkouts", len(snap.Checkouts)),
		zap.Int("returns", len(snap.Returns)),
		zap.Duration("took", time.Since(start)),
	)
	return snap, nil
}

func firstPositive(vs ...int) int {
	for _, v := range vs {
		if v > 0 {
			return v
		}
	}
	return 0
}
