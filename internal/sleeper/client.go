// Package sleeper reads leagues, rosters and users from the Sleeper API.
package sleeper

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/upstream"
)

const (
	DefaultBaseURL = "https://api.sleeper.app/v1"
	avatarBaseURL  = "https://sleepercdn.com/avatars/"
)

// Client wraps the shared upstream client with Sleeper endpoints.
type Client struct {
	api    *upstream.Client
	logger *slog.Logger
}

func New(api *upstream.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: api, logger: logger}
}

// Sleeper answers unknown ids with 200 and a null body.
func notFound(what, id string) error {
	payload, _ := json.Marshal(map[string]string{"error": what + " not found", "id": id})
	return &upstream.Error{Provider: "sleeper", StatusCode: http.StatusNotFound, Payload: payload, URL: what + "/" + id}
}

func (c *Client) League(ctx context.Context, leagueID string) (*League, error) {
	var l *League
	if err := c.api.GetJSON(ctx, "/league/"+url.PathEscape(leagueID), nil, &l); err != nil {
		return nil, err
	}
	if l == nil {
		return nil, notFound("league", leagueID)
	}
	return l, nil
}

func (c *Client) Rosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var rs []Roster
	if err := c.api.GetJSON(ctx, "/league/"+url.PathEscape(leagueID)+"/rosters", nil, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func (c *Client) Users(ctx context.Context, leagueID string) ([]User, error) {
	var us []User
	if err := c.api.GetJSON(ctx, "/league/"+url.PathEscape(leagueID)+"/users", nil, &us); err != nil {
		return nil, err
	}
	return us, nil
}

// User is the single-user lookup.
func (c *Client) User(ctx context.Context, userID string) (*User, error) {
	var u *User
	if err := c.api.GetJSON(ctx, "/user/"+url.PathEscape(userID), nil, &u); err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", userID)
	}
	return u, nil
}

// AvatarURL builds the CDN URL for an avatar id; nil when there is none.
func AvatarURL(avatar string) *string {
	if avatar == "" {
		return nil
	}
	u := avatarBaseURL + avatar
	return &u
}

func (c *Client) rostersAndUsers(ctx context.Context, leagueID string) ([]Roster, map[string]User, error) {
	var (
		rosters []Roster
		users   []User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rosters, err = c.Rosters(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = c.Users(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	byID := make(map[string]User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	return rosters, byID, nil
}

// ownerLookupLimit bounds concurrent single-user lookups for owners who are
// no longer in the league user list.
const ownerLookupLimit = 4

// LeagueRosters returns every roster with owner names filled in. Owners
// missing from the league user list are looked up individually; a failed
// lookup leaves the default owner name.
func (c *Client) LeagueRosters(ctx context.Context, leagueID string) ([]players.RosterEntry, error) {
	rosters, users, err := c.rostersAndUsers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	c.addMissingOwners(ctx, leagueID, rosters, users)

	out := make([]players.RosterEntry, 0, len(rosters))
	for _, r := range rosters {
		e := players.RosterEntry{
			Platform:  players.Sleeper,
			RosterID:  r.RosterID.String(),
			OwnerID:   r.OwnerID.String(),
			OwnerName: players.UnknownOwner,
			Players:   make([]players.PlayerRef, 0, len(r.Players)),
			Starters:  r.Starters,
		}
		if u, ok := users[e.OwnerID]; ok && e.OwnerID != "" {
			if u.DisplayName != "" {
				e.OwnerName = u.DisplayName
			}
			e.AvatarURL = AvatarURL(u.Avatar)
		}
		for _, id := range r.Players {
			e.Players = append(e.Players, players.PlayerRef{CanonicalID: id, PlatformID: id})
		}
		out = append(out, e)
	}
	return out, nil
}

// addMissingOwners fetches each owner absent from users once, at most
// ownerLookupLimit at a time, and adds the ones found.
func (c *Client) addMissingOwners(ctx context.Context, leagueID string, rosters []Roster, users map[string]User) {
	var missing []string
	seen := make(map[string]bool)
	for _, r := range rosters {
		id := r.OwnerID.String()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := users[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(ownerLookupLimit)
	for _, id := range missing {
		id := id
		g.Go(func() error {
			u, err := c.User(ctx, id)
			if err != nil {
				c.logger.Warn("owner lookup failed", "league_id", leagueID, "owner_id", id, "error", err)
				return nil
			}
			mu.Lock()
			users[id] = *u
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// Managers maps each owned roster to its manager. Unowned rosters are
// skipped.
func (c *Client) Managers(ctx context.Context, leagueID string) ([]players.Manager, error) {
	rosters, users, err := c.rostersAndUsers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	out := make([]players.Manager, 0, len(rosters))
	for _, r := range rosters {
		if r.OwnerID == "" {
			continue
		}
		m := players.Manager{
			RosterID:    r.RosterID.String(),
			UserID:      r.OwnerID.String(),
			DisplayName: players.UnknownOwner,
		}
		if u, ok := users[m.UserID]; ok {
			if u.DisplayName != "" {
				m.DisplayName = u.DisplayName
			}
			m.TeamName = u.Metadata.TeamName
			m.AvatarURL = AvatarURL(u.Avatar)
		}
		out = append(out, m)
	}
	sortManagers(out)
	return out, nil
}

func sortManagers(ms []players.Manager) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, aErr := strconv.Atoi(ms[i].RosterID)
		b, bErr := strconv.Atoi(ms[j].RosterID)
		if aErr == nil && bErr == nil {
			return a < b
		}
		return ms[i].RosterID < ms[j].RosterID
	})
}

// DetectFormat derives the league format and FantasyCalc ruleset from
// league settings.
func DetectFormat(l *League) players.LeagueFormat {
	qb, sf := 0, 0
	for _, p := range l.RosterPositions {
		switch p {
		case "QB":
			qb++
		case "SUPER_FLEX":
			sf++
		}
	}
	isDynasty := l.Settings.Type != 0
	label, numQBs := players.ClassifyFormat(isDynasty, qb, sf)

	rs := players.DefaultRuleset()
	rs.IsDynasty = isDynasty
	rs.NumQBs = numQBs
	if rec, ok := l.ScoringSettings["rec"]; ok {
		rs.PPR = normalizePPR(rec)
	}
	if l.TotalRosters > 0 {
		rs.NumTeams = l.TotalRosters
	}
	return players.LeagueFormat{
		Platform: players.Sleeper,
		LeagueID: l.LeagueID,
		Name:     l.Name,
		Season:   l.Season,
		Format:   label,
		Ruleset:  rs,
	}
}

// normalizePPR snaps a reception score to the nearest value FantasyCalc
// supports.
func normalizePPR(rec float64) float64 {
	switch {
	case rec < 0.25:
		return 0
	case rec < 0.75:
		return 0.5
	default:
		return 1
	}
}
