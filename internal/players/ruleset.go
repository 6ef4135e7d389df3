package players

import (
	"errors"
	"fmt"
)

var ErrInvalidRuleset = errors.New("invalid ruleset")

// Ruleset is the league scoring and format input to a valuation request.
type Ruleset struct {
	IsDynasty bool    `json:"isDynasty"`
	NumQBs    int     `json:"numQbs"`
	PPR       float64 `json:"ppr"`
	NumTeams  int     `json:"numTeams"`
}

// DefaultRuleset is a 12-team superflex full-PPR dynasty league.
func DefaultRuleset() Ruleset {
	return Ruleset{IsDynasty: true, NumQBs: 2, PPR: 1, NumTeams: 12}
}

func (r Ruleset) Validate() error {
	if r.NumQBs != 1 && r.NumQBs != 2 {
		return fmt.Errorf("%w: numQbs must be 1 or 2, got %d", ErrInvalidRuleset, r.NumQBs)
	}
	switch r.PPR {
	case 0, 0.5, 1:
	default:
		return fmt.Errorf("%w: ppr must be 0, 0.5 or 1, got %v", ErrInvalidRuleset, r.PPR)
	}
	if r.NumTeams <= 0 {
		return fmt.Errorf("%w: numTeams must be positive, got %d", ErrInvalidRuleset, r.NumTeams)
	}
	return nil
}

// RulesetOverride carries optional caller-supplied ruleset fields.
type RulesetOverride struct {
	IsDynasty *bool
	NumQBs    *int
	PPR       *float64
	NumTeams  *int
}

// Apply returns r with every set override field replaced.
func (o RulesetOverride) Apply(r Ruleset) Ruleset {
	if o.IsDynasty != nil {
		r.IsDynasty = *o.IsDynasty
	}
	if o.NumQBs != nil {
		r.NumQBs = *o.NumQBs
	}
	if o.PPR != nil {
		r.PPR = *o.PPR
	}
	if o.NumTeams != nil {
		r.NumTeams = *o.NumTeams
	}
	return r
}

// Format labels.
const (
	FormatRedraft   = "Redraft"
	FormatOneQB     = "1QB"
	FormatSuperflex = "SF"
)

// LeagueFormat is what format detection derives from league settings.
type LeagueFormat struct {
	Platform Platform `json:"platform"`
	LeagueID string   `json:"league_id"`
	Name     string   `json:"name,omitempty"`
	Season   string   `json:"season,omitempty"`
	Format   string   `json:"format"`
	Ruleset  Ruleset  `json:"ruleset"`
}

// ClassifyFormat maps the dynasty flag and starting QB slot counts to a
// format label and the number of QBs FantasyCalc should value for.
// Only exactly one QB slot with no superflex slot is 1QB.
func ClassifyFormat(isDynasty bool, qbSlots, superflexSlots int) (string, int) {
	numQBs := 2
	if qbSlots == 1 && superflexSlots == 0 {
		numQBs = 1
	}
	switch {
	case !isDynasty:
		return FormatRedraft, numQBs
	case numQBs == 1:
		return FormatOneQB, numQBs
	default:
		return FormatSuperflex, numQBs
	}
}
