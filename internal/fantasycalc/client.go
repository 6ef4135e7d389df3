// Package fantasycalc fetches market trade values from the FantasyCalc API.
package fantasycalc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/tyler180/fantasy-roster-values/internal/names"
	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/upstream"
)

const DefaultBaseURL = "https://api.fantasycalc.com"

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

func rulesetQuery(r players.Ruleset) url.Values {
	q := url.Values{}
	q.Set("isDynasty", strconv.FormatBool(r.IsDynasty))
	q.Set("numQbs", strconv.Itoa(r.NumQBs))
	q.Set("ppr", strconv.FormatFloat(r.PPR, 'f', -1, 64))
	q.Set("numTeams", strconv.Itoa(r.NumTeams))
	return q
}

// Values fetches current values for the ruleset. Records are keyed by
// cleansed name (first occurrence wins, the upstream sorts by value) and by
// Sleeper id when FantasyCalc knows it. Nothing is cached between calls.
func (c *Client) Values(ctx context.Context, r players.Ruleset) (players.Valuations, error) {
	if err := r.Validate(); err != nil {
		return players.Valuations{}, err
	}

	var raw json.RawMessage
	if err := c.api.GetJSON(ctx, "/values/current", rulesetQuery(r), &raw); err != nil {
		return players.Valuations{}, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return players.Valuations{}, &upstream.UnavailableError{
			Provider: c.api.Name(),
			Err:      errors.New("values response is not an array"),
		}
	}

	var recs []record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return players.Valuations{}, &upstream.UnavailableError{
			Provider: c.api.Name(),
			Err:      fmt.Errorf("decode values: %w", err),
		}
	}

	vals := players.NewValuations(len(recs))
	collisions := 0
	for _, rec := range recs {
		if rec.Player.Name == "" {
			continue
		}
		v := players.Valuation{
			Name:         rec.Player.Name,
			SleeperID:    rec.Player.SleeperID.String(),
			Position:     rec.Player.Position,
			Team:         rec.Player.MaybeTeam,
			Value:        rec.Value,
			OverallRank:  rec.OverallRank,
			PositionRank: rec.PositionRank,
			Trend30Day:   rec.Trend30Day,
			RedraftValue: rec.RedraftValue,
		}
		if !vals.Add(names.Cleanse(rec.Player.Name), v) {
			collisions++
		}
	}
	c.logger.Info("fantasycalc values loaded",
		"players", vals.Len(), "name_collisions", collisions,
		"is_dynasty", r.IsDynasty, "num_qbs", r.NumQBs, "ppr", r.PPR, "num_teams", r.NumTeams)
	return vals, nil
}
