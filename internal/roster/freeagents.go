package roster

import (
	"context"
	"sort"
	"strings"

	"github.com/tyler180/fantasy-roster-values/internal/logging"
	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/reconcile"
)

// freeAgents merges the directory players that pass free against the
// league's valuations. Analysis comes from the directory rows only.
func (s *Service) freeAgents(ctx context.Context, st leagueState, platform players.Platform, free func(players.CanonicalPlayer) bool, q Query) (FreeAgentsView, error) {
	rs, err := ruleset(st.format, q.Override)
	if err != nil {
		return FreeAgentsView{}, err
	}
	vals, err := s.values.Values(ctx, rs)
	if err != nil {
		return FreeAgentsView{}, err
	}

	// Free agents are directory players, so every ref is resolved by id.
	pool := players.RosterEntry{Platform: players.Sleeper, RosterID: "free-agents"}
	for _, p := range st.index.All() {
		if !free(p) {
			continue
		}
		if q.Position != "" && !strings.EqualFold(p.Position, q.Position) {
			continue
		}
		pool.Players = append(pool.Players, players.PlayerRef{CanonicalID: p.ID.String(), PlatformID: p.ID.String()})
	}

	merged := reconcile.Merge(pool, st.index, vals, nil)
	if q.Position != "" {
		// Valuation positions win in the merge; keep the filter honest.
		kept := merged[:0]
		for _, m := range merged {
			if strings.EqualFold(m.Position, q.Position) {
				kept = append(kept, m)
			}
		}
		merged = kept
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].TradeValue != merged[j].TradeValue {
			return merged[i].TradeValue > merged[j].TradeValue
		}
		return merged[i].FullName < merged[j].FullName
	})
	if q.Limit > 0 && len(merged) > q.Limit {
		merged = merged[:q.Limit]
	}
	for i := range merged {
		merged[i].RosterRank = i + 1
	}

	logging.FromContext(ctx, s.logger).Info("free agents merged",
		logging.FieldPlatform, platform,
		logging.FieldLeagueID, st.format.LeagueID,
		"players", len(merged))

	return FreeAgentsView{
		Platform: platform,
		LeagueID: st.format.LeagueID,
		Format:   st.format.Format,
		Ruleset:  rs,
		Count:    len(merged),
		Players:  merged,
	}, nil
}
