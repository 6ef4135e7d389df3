package sleeper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/upstream"
)

const (
	leagueJSON = `{
		"league_id": "L1", "name": "Dynasty Degens", "season": "2025", "total_rosters": 10,
		"roster_positions": ["QB","RB","RB","WR","WR","TE","FLEX","SUPER_FLEX","BN","BN"],
		"scoring_settings": {"rec": 0.5, "pass_td": 4},
		"settings": {"type": 2}
	}`
	rostersJSON = `[
		{"roster_id": 1, "owner_id": "u1", "players": ["4046","SEA","99999"], "starters": ["4046"]},
		{"roster_id": 2, "owner_id": "u2", "players": null},
		{"roster_id": 3, "owner_id": null, "players": ["6794"]}
	]`
	usersJSON = `[
		{"user_id": "u1", "display_name": "alice", "avatar": "abc123", "metadata": {"team_name": "Chiefs Kingdom"}}
	]`
)

func newServer(t *testing.T, routes map[string]string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"no route"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	api := upstream.New(upstream.Config{Name: "sleeper", BaseURL: srv.URL, HTTPClient: srv.Client()})
	return New(api, nil), srv
}

func TestLeagueRosters_JoinsOwners(t *testing.T) {
	c, _ := newServer(t, map[string]string{
		"/league/L1/rosters": rostersJSON,
		"/league/L1/users":   usersJSON,
		"/user/u2":           `{"user_id": "u2", "display_name": "bob"}`,
	})

	rosters, err := c.LeagueRosters(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, rosters, 3)

	r1 := rosters[0]
	assert.Equal(t, "1", r1.RosterID)
	assert.Equal(t, "alice", r1.OwnerName)
	require.NotNil(t, r1.AvatarURL)
	assert.Equal(t, "https://sleepercdn.com/avatars/abc123", *r1.AvatarURL)
	require.Len(t, r1.Players, 3)
	assert.Equal(t, players.PlayerRef{CanonicalID: "SEA", PlatformID: "SEA"}, r1.Players[1])

	// owner missing from league users, found via single lookup
	assert.Equal(t, "bob", rosters[1].OwnerName)
	assert.Nil(t, rosters[1].AvatarURL)
	assert.Empty(t, rosters[1].Players)

	assert.Equal(t, players.UnknownOwner, rosters[2].OwnerName)
}

func TestLeagueRosters_OwnerLookupFailureKeepsDefault(t *testing.T) {
	c, _ := newServer(t, map[string]string{
		"/league/L1/rosters": `[{"roster_id": 7, "owner_id": "ghost", "players": []}]`,
		"/league/L1/users":   `[]`,
	})
	rosters, err := c.LeagueRosters(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, players.UnknownOwner, rosters[0].OwnerName)
}

func TestLeagueRosters_MissingOwnersFetchedOnceWithBoundedConcurrency(t *testing.T) {
	var inFlight, peak, userHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/league/L1/rosters":
			var b strings.Builder
			b.WriteString("[")
			for i := 0; i < 12; i++ {
				if i > 0 {
					b.WriteString(",")
				}
				// rosters 10 to 12 share owner gone9
				fmt.Fprintf(&b, `{"roster_id": %d, "owner_id": "gone%d", "players": []}`, i+1, min(i, 9))
			}
			b.WriteString("]")
			_, _ = w.Write([]byte(b.String()))
		case r.URL.Path == "/league/L1/users":
			_, _ = w.Write([]byte(`[]`))
		case strings.HasPrefix(r.URL.Path, "/user/"):
			userHits.Add(1)
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			id := strings.TrimPrefix(r.URL.Path, "/user/")
			fmt.Fprintf(w, `{"user_id": %q, "display_name": "owner-%s"}`, id, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	c := New(upstream.New(upstream.Config{Name: "sleeper", BaseURL: srv.URL, HTTPClient: srv.Client()}), nil)

	rosters, err := c.LeagueRosters(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, rosters, 12)
	assert.Equal(t, "owner-gone0", rosters[0].OwnerName)
	assert.Equal(t, "owner-gone9", rosters[10].OwnerName)
	assert.Equal(t, "owner-gone9", rosters[11].OwnerName)

	assert.EqualValues(t, 10, userHits.Load())
	assert.LessOrEqual(t, peak.Load(), int32(ownerLookupLimit))
}

func TestLeagueRosters_FailsWhenEitherCallFails(t *testing.T) {
	c, _ := newServer(t, map[string]string{
		"/league/L1/rosters": rostersJSON,
	})
	_, err := c.LeagueRosters(context.Background(), "L1")
	ue, ok := upstream.AsError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, http.StatusNotFound, ue.StatusCode)
}

func TestManagers(t *testing.T) {
	c, _ := newServer(t, map[string]string{
		"/league/L1/rosters": rostersJSON,
		"/league/L1/users":   usersJSON,
	})
	ms, err := c.Managers(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, ms, 2)

	assert.Equal(t, "1", ms[0].RosterID)
	assert.Equal(t, "alice", ms[0].DisplayName)
	assert.Equal(t, "Chiefs Kingdom", ms[0].TeamName)
	require.NotNil(t, ms[0].AvatarURL)

	assert.Equal(t, "2", ms[1].RosterID)
	assert.Equal(t, players.UnknownOwner, ms[1].DisplayName)
	assert.Nil(t, ms[1].AvatarURL)
}

func TestLeague_NullBodyIsNotFound(t *testing.T) {
	c, _ := newServer(t, map[string]string{"/league/nope": `null`, "/user/nobody": `null`})

	_, err := c.League(context.Background(), "nope")
	ue, ok := upstream.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ue.StatusCode)

	_, err = c.User(context.Background(), "nobody")
	_, ok = upstream.AsError(err)
	assert.True(t, ok)
}

func TestDetectFormat(t *testing.T) {
	c, _ := newServer(t, map[string]string{"/league/L1": leagueJSON})
	l, err := c.League(context.Background(), "L1")
	require.NoError(t, err)

	f := DetectFormat(l)
	assert.Equal(t, players.FormatSuperflex, f.Format)
	assert.Equal(t, players.Ruleset{IsDynasty: true, NumQBs: 2, PPR: 0.5, NumTeams: 10}, f.Ruleset)
	assert.Equal(t, "Dynasty Degens", f.Name)

	redraft := &League{RosterPositions: []string{"QB", "RB", "WR"}}
	f = DetectFormat(redraft)
	assert.Equal(t, players.FormatRedraft, f.Format)
	assert.Equal(t, 1, f.Ruleset.NumQBs)
	assert.False(t, f.Ruleset.IsDynasty)
	assert.Equal(t, 12, f.Ruleset.NumTeams)
	assert.Equal(t, 1.0, f.Ruleset.PPR)
}

func TestNormalizePPR(t *testing.T) {
	assert.Equal(t, 0.0, normalizePPR(0))
	assert.Equal(t, 0.5, normalizePPR(0.5))
	assert.Equal(t, 1.0, normalizePPR(1))
	assert.Equal(t, 1.0, normalizePPR(1.5))
}
