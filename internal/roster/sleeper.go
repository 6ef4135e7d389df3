package roster

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/sleeper"
)

func (s *Service) SleeperLeague(ctx context.Context, leagueID string) (players.LeagueFormat, error) {
	l, err := s.sleeper.League(ctx, leagueID)
	if err != nil {
		return players.LeagueFormat{}, err
	}
	return sleeper.DetectFormat(l), nil
}

func (s *Service) SleeperManagers(ctx context.Context, leagueID string) ([]players.Manager, error) {
	return s.sleeper.Managers(ctx, leagueID)
}

// sleeperState fetches rosters, league settings and the directory at once.
func (s *Service) sleeperState(ctx context.Context, leagueID string) (leagueState, error) {
	var (
		st     leagueState
		league *sleeper.League
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		st.rosters, err = s.sleeper.LeagueRosters(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		league, err = s.sleeper.League(gctx, leagueID)
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
	st.format = sleeper.DetectFormat(league)
	st.format.LeagueID = leagueID
	return st, nil
}

func (s *Service) SleeperRoster(ctx context.Context, leagueID, rosterID string, q Query) (RosterView, error) {
	st, err := s.sleeperState(ctx, leagueID)
	if err != nil {
		return RosterView{}, err
	}
	entry, ok := findRoster(st.rosters, rosterID)
	if !ok {
		return RosterView{}, &NotFoundError{What: "roster", ID: rosterID}
	}
	return s.mergeRoster(ctx, st, entry, q)
}

// SleeperFreeAgents values every directory player whose id is on no
// roster in the league.
func (s *Service) SleeperFreeAgents(ctx context.Context, leagueID string, q Query) (FreeAgentsView, error) {
	st, err := s.sleeperState(ctx, leagueID)
	if err != nil {
		return FreeAgentsView{}, err
	}
	taken := make(map[string]struct{})
	for _, r := range st.rosters {
		for _, p := range r.Players {
			taken[p.CanonicalID] = struct{}{}
		}
	}
	return s.freeAgents(ctx, st, players.Sleeper, func(p players.CanonicalPlayer) bool {
		_, ok := taken[p.ID.String()]
		return !ok
	}, q)
}
