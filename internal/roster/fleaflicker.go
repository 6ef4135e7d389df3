package roster

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tyler180/fantasy-roster-values/internal/fleaflicker"
	"github.com/tyler180/fantasy-roster-values/internal/names"
	"github.com/tyler180/fantasy-roster-values/internal/players"
)

func (s *Service) FleaflickerLeague(ctx context.Context, leagueID string) (players.LeagueFormat, error) {
	return s.flea.LeagueFormat(ctx, leagueID)
}

func (s *Service) FleaflickerManagers(ctx context.Context, leagueID string) ([]players.Manager, error) {
	return s.flea.Managers(ctx, leagueID)
}

func (s *Service) fleaflickerState(ctx context.Context, leagueID string) (leagueState, error) {
	var (
		st    leagueState
		rules *fleaflicker.Rules
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		st.rosters, err = s.flea.LeagueRosters(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		rules, err = s.flea.Rules(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		st.index, err = s.dir.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return leagueState{}, err
	}
	st.format = fleaflicker.DetectFormat(rules, len(st.rosters))
	st.format.LeagueID = leagueID
	return st, nil
}

func (s *Service) FleaflickerRoster(ctx context.Context, leagueID, rosterID string, q Query) (RosterView, error) {
	st, err := s.fleaflickerState(ctx, leagueID)
	if err != nil {
		return RosterView{}, err
	}
	entry, ok := findRoster(st.rosters, rosterID)
	if !ok {
		return RosterView{}, &NotFoundError{What: "roster", ID: rosterID}
	}
	return s.mergeRoster(ctx, st, entry, q)
}

// FleaflickerFreeAgents excludes directory players by cleansed name, since
// Fleaflicker rosters carry no Sleeper ids.
func (s *Service) FleaflickerFreeAgents(ctx context.Context, leagueID string, q Query) (FreeAgentsView, error) {
	st, err := s.fleaflickerState(ctx, leagueID)
	if err != nil {
		return FreeAgentsView{}, err
	}
	taken := make(map[string]struct{})
	for _, r := range st.rosters {
		for _, p := range r.Players {
			if key := names.Cleanse(p.FullName); key != "" {
				taken[key] = struct{}{}
			}
		}
	}
	return s.freeAgents(ctx, st, players.Fleaflicker, func(p players.CanonicalPlayer) bool {
		_, ok := taken[names.Cleanse(p.DisplayName())]
		return !ok
	}, q)
}
