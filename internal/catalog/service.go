package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aa-remote/site/internal/domain"
	"github.com/aa-remote/site/internal/platform/cache"
	"github.com/aa-remote/site/internal/sources"
)

const (
	snapshotKey = "catalog:sources"

	// DefaultSnapshotTTL bounds how long a snapshot serves before a refresh
	// is attempted. Stale snapshots keep serving while the refresh runs.
	DefaultSnapshotTTL = 24 * time.Hour

	// DefaultRefreshDebounce coalesces rapid refresh requests, e.g. a user
	// typing a search query one keystroke at a time.
	DefaultRefreshDebounce = 500 * time.Millisecond
)

// SourceLoader yields the current state of every game source.
type SourceLoader interface {
	LoadAll(ctx context.Context) sources.SourceSet
}

// Snapshot is one consistent load of all sources plus the moment it was
// taken. Views of both collections render from the same snapshot.
type Snapshot struct {
	Remote    []domain.CatalogItem
	Local     []domain.CatalogItem
	FetchedAt time.Time
}

// View is a rendered catalog page together with the canonical state it
// answers for, after page clamping.
type View struct {
	State    ViewState
	Games    domain.Page[domain.CatalogItem]
	Software domain.Page[domain.SoftwareProduct]
}

// Deps bundles the collaborators a Service needs.
type Deps struct {
	Loader          SourceLoader
	Pipeline        *Pipeline
	Store           *cache.Store[Snapshot]
	Logger          *zap.Logger
	SnapshotTTL     time.Duration
	RefreshDebounce time.Duration
	Clock           func() time.Time
}

// Service owns the source snapshot lifecycle: cached loads, background
// refresh with debouncing, and stale-result discarding when refreshes race.
type Service struct {
	loader   SourceLoader
	pipeline *Pipeline
	store    *cache.Store[Snapshot]
	software []domain.SoftwareProduct
	logger   *zap.Logger
	ttl      time.Duration
	debounce time.Duration
	clock    func() time.Time

	mu         sync.Mutex
	issued     uint64
	committed  uint64
	timer      *time.Timer
	refreshing bool
}

// NewService constructs a catalog service. Nil optional deps fall back to
// working defaults.
func NewService(deps Deps) *Service {
	if deps.Pipeline == nil {
		deps.Pipeline = NewPipeline()
	}
	if deps.Store == nil {
		deps.Store = cache.New[Snapshot]()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.SnapshotTTL <= 0 {
		deps.SnapshotTTL = DefaultSnapshotTTL
	}
	if deps.RefreshDebounce <= 0 {
		deps.RefreshDebounce = DefaultRefreshDebounce
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{
		loader:   deps.Loader,
		pipeline: deps.Pipeline,
		store:    deps.Store,
		software: sources.SoftwareCatalog(),
		logger:   deps.Logger,
		ttl:      deps.SnapshotTTL,
		debounce: deps.RefreshDebounce,
		clock:    deps.Clock,
	}
}

// Snapshot returns the current source snapshot, loading synchronously when
// none is cached yet. An expired snapshot is returned as-is and a background
// refresh is started, so readers never block on the upstream once warm.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, ok := s.store.Get(snapshotKey)
	if !ok {
		return s.refresh(ctx)
	}
	if s.store.IsExpired(snapshotKey) {
		s.refreshAsync()
	}
	return snap, nil
}

// Refresh reloads all sources immediately, bypassing the debounce. When the
// reload fails entirely the previous snapshot is kept and returned.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	return s.refresh(ctx)
}

// RefreshDebounced schedules a background refresh after the debounce window.
// Calls within the window replace the pending one, so a burst of triggers
// results in a single load.
func (s *Service) RefreshDebounced() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.refreshAsync)
}

// refreshAsync starts at most one background refresh at a time.
func (s *Service) refreshAsync() {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return
	}
	s.refreshing = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.refreshing = false
			s.mu.Unlock()
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.refresh(ctx); err != nil {
			s.logger.Warn("background catalog refresh failed", zap.Error(err))
		}
	}()
}

// refresh performs one load and commits it unless a later-issued load has
// already committed. Each refresh takes a generation number when it starts;
// at commit time the number is compared under lock, so the latest-issued
// result always wins regardless of completion order.
func (s *Service) refresh(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	set := s.loader.LoadAll(ctx)
	if set.Failed() {
		if prev, ok := s.store.Get(snapshotKey); ok {
			s.logger.Warn("all catalog sources failed, keeping previous snapshot")
			return prev, nil
		}
		return Snapshot{}, sources.ErrAllSourcesFailed
	}

	snap := Snapshot{
		Remote:    set.Remote,
		Local:     set.Local,
		FetchedAt: s.clock().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.committed {
		// A later-issued load already committed; this result is out of date.
		current, _ := s.store.Get(snapshotKey)
		return current, nil
	}
	s.committed = gen
	s.store.Set(snapshotKey, snap, s.ttl)

	s.logger.Info("catalog snapshot refreshed",
		zap.Int("remote_items", len(snap.Remote)),
		zap.Int("local_items", len(snap.Local)),
		zap.Bool("remote_ok", set.RemoteOK),
		zap.Bool("local_ok", set.LocalOK))
	return snap, nil
}

// View renders the page for the given state. Game views consume the source
// snapshot; software views use the fixed product catalog. The returned
// View carries the clamped state for canonical URL serialisation.
func (s *Service) View(ctx context.Context, state ViewState) (View, error) {
	if state.Collection == domain.CollectionGame {
		snap, err := s.Snapshot(ctx)
		if err != nil {
			return View{}, err
		}
		page, clamped := s.pipeline.View(snap.Remote, snap.Local, state)
		return View{State: clamped, Games: page}, nil
	}

	page, clamped := s.pipeline.ViewSoftware(s.software, state)
	return View{State: clamped, Software: page}, nil
}

// Categories returns the filter options for the given collection.
func (s *Service) Categories(collection domain.Collection) []string {
	if collection == domain.CollectionGame {
		return sources.GameCategories()
	}
	return sources.SoftwareCategories()
}
