// Package directory is the in-memory canonical player directory: loaded
// once from the player table (or the local snapshot when the table is
// unreachable), then served read-only until an explicit Reload.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tyler180/fantasy-roster-values/internal/metrics"
	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/store"
)

// ErrUnavailable means neither the table nor the snapshot could be loaded.
var ErrUnavailable = errors.New("player directory unavailable")

var errEmptyRemote = errors.New("player table returned no usable rows")

// RemoteSource is the primary directory source (store.Table satisfies it).
type RemoteSource interface {
	ScanPlayers(ctx context.Context) ([]players.CanonicalPlayer, error)
}

// SnapshotLoader reads the fallback snapshot file.
type SnapshotLoader func(path string) ([]players.CanonicalPlayer, error)

type Option func(*Directory)

func WithLogger(l *slog.Logger) Option { return func(d *Directory) { d.logger = l } }

func WithMetrics(m *metrics.Recorder) Option { return func(d *Directory) { d.metrics = m } }

func WithSnapshotLoader(fn SnapshotLoader) Option {
	return func(d *Directory) { d.loadSnapshot = fn }
}

// WithLoadTimeout bounds one full load (scan plus fallback).
func WithLoadTimeout(t time.Duration) Option { return func(d *Directory) { d.loadTimeout = t } }

// Directory owns the active Index. Construct one per process and share it.
type Directory struct {
	remote       RemoteSource
	snapshotPath string
	loadSnapshot SnapshotLoader
	loadTimeout  time.Duration
	logger       *slog.Logger
	metrics      *metrics.Recorder

	group singleflight.Group

	mu    sync.RWMutex
	index *Index
}

// New builds an unloaded directory. remote may be nil, in which case only
// the snapshot is used.
func New(remote RemoteSource, snapshotPath string, opts ...Option) *Directory {
	d := &Directory{
		remote:       remote,
		snapshotPath: snapshotPath,
		loadSnapshot: store.LoadSnapshot,
		loadTimeout:  2 * time.Minute,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// IsLoaded reports whether an index has been installed.
func (d *Directory) IsLoaded() bool {
	return d.current() != nil
}

func (d *Directory) current() *Index {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.index
}

// GetAll returns the active index, loading it on first use. Concurrent
// first calls share one load.
func (d *Directory) GetAll(ctx context.Context) (*Index, error) {
	if ix := d.current(); ix != nil {
		return ix, nil
	}
	return d.load(ctx, false)
}

// Reload builds a fresh index and swaps it in. On failure the previous
// index stays active.
func (d *Directory) Reload(ctx context.Context) (*Index, error) {
	return d.load(ctx, true)
}

// Roster resolves roster ids against the active index. Every id yields a
// slot; see Index.Resolve.
func (d *Directory) Roster(ctx context.Context, ids []string) ([]Slot, error) {
	ix, err := d.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Roster(ids), nil
}

func (d *Directory) load(ctx context.Context, force bool) (*Index, error) {
	ch := d.group.DoChan("load", func() (any, error) {
		if !force {
			if ix := d.current(); ix != nil {
				return ix, nil
			}
		}
		// The load outlives any single caller's request.
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.loadTimeout)
		defer cancel()

		ix, err := d.build(lctx)
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.index = ix
		d.mu.Unlock()
		return ix, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	}
}

func (d *Directory) build(ctx context.Context) (*Index, error) {
	start := time.Now()
	remoteErr := errors.New("no player table configured")
	if d.remote != nil {
		rows, err := d.remote.ScanPlayers(ctx)
		if err == nil {
			ix := NewIndex(rows, SourceRemote, d.logger)
			if ix.Len() > 0 {
				d.metrics.DirectoryLoad(SourceRemote, true, ix.Len())
				d.logger.Info("player directory loaded", "source", SourceRemote, "players", ix.Len(), "elapsed", time.Since(start))
				return ix, nil
			}
			err = errEmptyRemote
		}
		remoteErr = err
		d.metrics.DirectoryLoad(SourceRemote, false, 0)
		d.logger.Warn("player table load failed, falling back to snapshot", "error", err, "snapshot", d.snapshotPath)
	}

	rows, err := d.loadSnapshot(d.snapshotPath)
	if err == nil {
		ix := NewIndex(rows, SourceSnapshot, d.logger)
		if ix.Len() > 0 {
			d.metrics.DirectoryLoad(SourceSnapshot, true, ix.Len())
			d.logger.Info("player directory loaded", "source", SourceSnapshot, "players", ix.Len(), "elapsed", time.Since(start))
			return ix, nil
		}
		err = store.ErrEmptySnapshot
	}
	d.metrics.DirectoryLoad(SourceSnapshot, false, 0)
	d.logger.Error("player directory load failed", "remote_error", remoteErr, "snapshot_error", err)
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(remoteErr, err))
}
