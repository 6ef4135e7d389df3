// Package fleaflicker reads league rosters and rules from the Fleaflicker
// API. Fleaflicker player ids are not Sleeper ids; slots carry the player
// name so they can be matched through the name index.
package fleaflicker

import (
	"context"
	"net/url"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/upstream"
)

const DefaultBaseURL = "https://www.fleaflicker.com/api"

type Client struct {
	api *upstream.Client
}

func New(api *upstream.Client) *Client {
	return &Client{api: api}
}

func leagueQuery(leagueID string) url.Values {
	return url.Values{"sport": {"NFL"}, "league_id": {leagueID}}
}

func (c *Client) Rosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var resp rostersResponse
	if err := c.api.GetJSON(ctx, "/FetchLeagueRosters", leagueQuery(leagueID), &resp); err != nil {
		return nil, err
	}
	return resp.Rosters, nil
}

func (c *Client) Rules(ctx context.Context, leagueID string) (*Rules, error) {
	var r Rules
	if err := c.api.GetJSON(ctx, "/FetchLeagueRules", leagueQuery(leagueID), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// LeagueRosters converts every team's roster into roster entries. Slots
// without a pro player are skipped; they are empty lineup positions, not
// players.
func (c *Client) LeagueRosters(ctx context.Context, leagueID string) ([]players.RosterEntry, error) {
	rosters, err := c.Rosters(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	out := make([]players.RosterEntry, 0, len(rosters))
	for _, r := range rosters {
		m := managerOf(r.Team)
		e := players.RosterEntry{
			Platform:  players.Fleaflicker,
			RosterID:  m.RosterID,
			OwnerID:   m.UserID,
			OwnerName: m.DisplayName,
			AvatarURL: m.AvatarURL,
			Players:   make([]players.PlayerRef, 0, len(r.Players)),
		}
		for _, it := range r.Players {
			p := it.ProPlayer
			if p == nil || (p.NameFull == "" && p.ID == "") {
				continue
			}
			e.Players = append(e.Players, players.PlayerRef{
				PlatformID: p.ID.String(),
				FullName:   p.NameFull,
				Position:   p.Position,
				Team:       p.ProTeamAbbreviation,
			})
		}
		out = append(out, e)
	}
	return out, nil
}

// Managers lists one manager per team.
func (c *Client) Managers(ctx context.Context, leagueID string) ([]players.Manager, error) {
	rosters, err := c.Rosters(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	out := make([]players.Manager, 0, len(rosters))
	for _, r := range rosters {
		out = append(out, managerOf(r.Team))
	}
	return out, nil
}

// managerOf prefers the first owner's display name, then the team name.
func managerOf(t Team) players.Manager {
	m := players.Manager{
		RosterID:    t.ID.String(),
		DisplayName: players.UnknownOwner,
		TeamName:    t.Name,
	}
	if t.Name != "" {
		m.DisplayName = t.Name
	}
	if len(t.Owners) > 0 {
		o := t.Owners[0]
		m.UserID = o.ID.String()
		if o.DisplayName != "" {
			m.DisplayName = o.DisplayName
		}
		if o.AvatarURL != "" {
			u := o.AvatarURL
			m.AvatarURL = &u
		}
	}
	if m.AvatarURL == nil && t.LogoURL != "" {
		u := t.LogoURL
		m.AvatarURL = &u
	}
	return m
}

// LeagueFormat fetches rules and rosters concurrently and derives the
// format. Team count comes from the roster list.
func (c *Client) LeagueFormat(ctx context.Context, leagueID string) (players.LeagueFormat, error) {
	var (
		rules   *Rules
		rosters []Roster
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rules, err = c.Rules(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		rosters, err = c.Rosters(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return players.LeagueFormat{}, err
	}
	f := DetectFormat(rules, len(rosters))
	f.LeagueID = leagueID
	return f, nil
}

// DetectFormat counts starting QB and superflex slots. Fleaflicker rules
// carry no redraft flag, so leagues are treated as dynasty.
func DetectFormat(r *Rules, teams int) players.LeagueFormat {
	qb, sf := 0, 0
	if r != nil {
		for _, p := range r.RosterPositions {
			if p.Group != "START" {
				continue
			}
			if p.Label == "QB" || (len(p.Eligibility) == 1 && p.Eligibility[0] == "QB") {
				qb += p.Start
			}
			if len(p.Eligibility) > 1 && slices.Contains(p.Eligibility, "QB") {
				sf += p.Start
			}
		}
	}
	label, numQBs := players.ClassifyFormat(true, qb, sf)
	rs := players.DefaultRuleset()
	rs.NumQBs = numQBs
	if teams > 0 {
		rs.NumTeams = teams
	}
	return players.LeagueFormat{
		Platform: players.Fleaflicker,
		Format:   label,
		Ruleset:  rs,
	}
}
