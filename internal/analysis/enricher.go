// Package analysis batch-reads precomputed rank, tier and note records for
// canonical player ids.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/store"
)

const DefaultConcurrency = 4

// BatchGetter is one storage batch read of at most store.MaxBatchGet ids.
type BatchGetter interface {
	BatchGetAnalysis(ctx context.Context, ids []string) (map[string]players.AnalysisRecord, error)
}

type Enricher struct {
	store       BatchGetter
	chunkSize   int
	concurrency int
}

func New(s BatchGetter, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Enricher{store: s, chunkSize: store.MaxBatchGet, concurrency: concurrency}
}

// BatchGet returns records for the ids that have one. Blank and repeated ids
// are dropped, and the ids are read in chunks with bounded concurrency.
// Any chunk failure fails the call.
func (e *Enricher) BatchGet(ctx context.Context, ids []string) (map[string]players.AnalysisRecord, error) {
	uniq := dedupe(ids)
	out := make(map[string]players.AnalysisRecord, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for start := 0; start < len(uniq); start += e.chunkSize {
		chunk := uniq[start:min(start+e.chunkSize, len(uniq))]
		g.Go(func() error {
			recs, err := e.store.BatchGetAnalysis(gctx, chunk)
			if err != nil {
				return fmt.Errorf("analysis batch of %d: %w", len(chunk), err)
			}
			mu.Lock()
			for id, r := range recs {
				out[id] = r
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
