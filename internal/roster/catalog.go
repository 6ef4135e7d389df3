package roster

import (
	"context"
	"strings"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// Values returns the cleansed-name valuation map for the default ruleset
// with overrides applied.
func (s *Service) Values(ctx context.Context, o players.RulesetOverride) (map[string]players.Valuation, error) {
	rs := o.Apply(players.DefaultRuleset())
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	vals, err := s.values.Values(ctx, rs)
	if err != nil {
		return nil, err
	}
	return vals.Named(), nil
}

// Players returns the whole directory ordered by id.
func (s *Service) Players(ctx context.Context) ([]players.CanonicalPlayer, error) {
	ix, err := s.dir.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ix.All(), nil
}

// Player is a point read against the player table.
func (s *Service) Player(ctx context.Context, id string) (players.CanonicalPlayer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return players.CanonicalPlayer{}, &InvalidInputError{Msg: "player id is required"}
	}
	p, found, err := s.players.GetPlayer(ctx, id)
	if err != nil {
		return players.CanonicalPlayer{}, err
	}
	if !found {
		return players.CanonicalPlayer{}, &NotFoundError{What: "player", ID: id}
	}
	return p, nil
}

// AnalysisBatch returns the records that exist for ids, in request order
// with duplicates collapsed.
func (s *Service) AnalysisBatch(ctx context.Context, ids []string) ([]players.AnalysisRecord, error) {
	if ids == nil {
		return nil, &InvalidInputError{Msg: "sleeper_ids array required"}
	}
	recs, err := s.analysis.BatchGet(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]players.AnalysisRecord, 0, len(recs))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		r, ok := recs[id]
		if !ok {
			continue
		}
		out = append(out, r)
		delete(recs, id)
	}
	return out, nil
}
