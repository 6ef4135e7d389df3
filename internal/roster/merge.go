package roster

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tyler180/fantasy-roster-values/internal/directory"
	"github.com/tyler180/fantasy-roster-values/internal/logging"
	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/reconcile"
)

// leagueState is what phase one of a roster request gathers.
type leagueState struct {
	format  players.LeagueFormat
	rosters []players.RosterEntry
	index   *directory.Index
}

// mergeRoster runs phase two: valuations and analysis for the resolved ids
// are fetched concurrently, then the roster is merged.
func (s *Service) mergeRoster(ctx context.Context, st leagueState, entry players.RosterEntry, q Query) (RosterView, error) {
	rs, err := ruleset(st.format, q.Override)
	if err != nil {
		return RosterView{}, err
	}

	var (
		vals     players.Valuations
		analysis map[string]players.AnalysisRecord
	)
	ids := reconcile.CanonicalIDs(entry, st.index)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vals, err = s.values.Values(gctx, rs)
		return err
	})
	g.Go(func() error {
		var err error
		analysis, err = s.analysis.BatchGet(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return RosterView{}, err
	}

	merged := reconcile.Merge(entry, st.index, vals, analysis)
	stats := reconcile.Stats(merged)
	s.metrics.ReconcileMatches(string(entry.Platform), stats)

	total := 0.0
	for _, m := range merged {
		total += m.TradeValue
	}
	logging.FromContext(ctx, s.logger).Info("roster merged",
		logging.FieldPlatform, entry.Platform,
		logging.FieldLeagueID, st.format.LeagueID,
		logging.FieldRosterID, entry.RosterID,
		"players", len(merged),
		"analysis", len(analysis),
		"matches", fmt.Sprint(stats))

	return RosterView{
		Platform:        entry.Platform,
		LeagueID:        st.format.LeagueID,
		RosterID:        entry.RosterID,
		OwnerName:       entry.OwnerName,
		AvatarURL:       entry.AvatarURL,
		Format:          st.format.Format,
		Ruleset:         rs,
		TotalValue:      total,
		DirectorySource: st.index.Source(),
		Players:         merged,
	}, nil
}
