package sources

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aa-remote/site/internal/domain"
)

// RemoteFetcher supplies the third-party catalog feed.
type RemoteFetcher interface {
	FetchCatalog(ctx context.Context) ([]CatalogRecord, error)
}

// LocalFetcher supplies the static catalog feed.
type LocalFetcher interface {
	Load(ctx context.Context) ([]CatalogRecord, error)
}

// Loader fetches both feeds concurrently and absorbs per-source failures:
// a dead source contributes zero items and a log line, never an error. The
// pipeline treats empty sources as a legitimate state.
type Loader struct {
	remote RemoteFetcher
	local  LocalFetcher
	logger *zap.Logger
}

// NewLoader constructs a Loader over the two feeds.
func NewLoader(remote RemoteFetcher, local LocalFetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{remote: remote, local: local, logger: logger}
}

// SourceSet carries the outcome of loading both feeds. The OK flags
// distinguish "source failed" from "source succeeded with zero items"; both
// surface as empty slices to the pipeline.
type SourceSet struct {
	Remote   []domain.CatalogItem
	Local    []domain.CatalogItem
	RemoteOK bool
	LocalOK  bool
}

// Failed reports whether neither feed produced data.
func (s SourceSet) Failed() bool { return !s.RemoteOK && !s.LocalOK }

// ErrAllSourcesFailed reports that no source produced data and no earlier
// snapshot exists to fall back on.
var ErrAllSourcesFailed = errors.New("sources: all catalog sources failed")

// LoadAll returns the normalised items of both feeds. Each source's failure
// is isolated; the other's data is still returned.
func (l *Loader) LoadAll(ctx context.Context) SourceSet {
	var set SourceSet
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if l.remote == nil {
			return nil
		}
		records, err := l.remote.FetchCatalog(ctx)
		if err != nil {
			l.logger.Warn("remote catalog fetch failed", zap.Error(err))
			return nil
		}
		set.Remote = Normalize(records, domain.SourceRemote)
		set.RemoteOK = true
		return nil
	})

	g.Go(func() error {
		if l.local == nil {
			return nil
		}
		records, err := l.local.Load(ctx)
		if err != nil {
			l.logger.Warn("local catalog load failed", zap.Error(err))
			return nil
		}
		set.Local = Normalize(records, domain.SourceLocal)
		set.LocalOK = true
		return nil
	})

	// Goroutines absorb their own failures, so Wait never returns an error.
	_ = g.Wait()
	return set
}
