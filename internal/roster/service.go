// Package roster composes the platform clients, player directory,
// valuations and analysis into the views the HTTP API serves.
package roster

import (
	"context"
	"log/slog"

	"github.com/tyler180/fantasy-roster-values/internal/directory"
	"github.com/tyler180/fantasy-roster-values/internal/fleaflicker"
	"github.com/tyler180/fantasy-roster-values/internal/metrics"
	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/sleeper"
)

type Directory interface {
	GetAll(ctx context.Context) (*directory.Index, error)
	IsLoaded() bool
}

type SleeperAPI interface {
	League(ctx context.Context, leagueID string) (*sleeper.League, error)
	LeagueRosters(ctx context.Context, leagueID string) ([]players.RosterEntry, error)
	Managers(ctx context.Context, leagueID string) ([]players.Manager, error)
}

type FleaflickerAPI interface {
	Rules(ctx context.Context, leagueID string) (*fleaflicker.Rules, error)
	LeagueFormat(ctx context.Context, leagueID string) (players.LeagueFormat, error)
	LeagueRosters(ctx context.Context, leagueID string) ([]players.RosterEntry, error)
	Managers(ctx context.Context, leagueID string) ([]players.Manager, error)
}

type Valuer interface {
	Values(ctx context.Context, r players.Ruleset) (players.Valuations, error)
}

type AnalysisGetter interface {
	BatchGet(ctx context.Context, ids []string) (map[string]players.AnalysisRecord, error)
}

type PlayerStore interface {
	GetPlayer(ctx context.Context, id string) (players.CanonicalPlayer, bool, error)
}

// Deps are the collaborators a Service is built from. Metrics and Logger
// may be nil.
type Deps struct {
	Directory   Directory
	Sleeper     SleeperAPI
	Fleaflicker FleaflickerAPI
	Values      Valuer
	Analysis    AnalysisGetter
	Players     PlayerStore
	Metrics     *metrics.Recorder
	Logger      *slog.Logger
}

type Service struct {
	dir      Directory
	sleeper  SleeperAPI
	flea     FleaflickerAPI
	values   Valuer
	analysis AnalysisGetter
	players  PlayerStore
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Service{
		dir:      d.Directory,
		sleeper:  d.Sleeper,
		flea:     d.Fleaflicker,
		values:   d.Values,
		analysis: d.Analysis,
		players:  d.Players,
		metrics:  d.Metrics,
		logger:   d.Logger,
	}
}

// DirectoryLoaded reports whether the player directory has been loaded.
func (s *Service) DirectoryLoaded() bool { return s.dir.IsLoaded() }

// Query carries the per-request options of roster and free-agent views.
type Query struct {
	Override players.RulesetOverride
	// Position filters free agents; empty keeps all.
	Position string
	// Limit caps free agents; <= 0 keeps all.
	Limit int
}

// RosterView is one merged roster.
type RosterView struct {
	Platform        players.Platform       `json:"platform"`
	LeagueID        string                 `json:"league_id"`
	RosterID        string                 `json:"roster_id"`
	OwnerName       string                 `json:"owner_name"`
	AvatarURL       *string                `json:"avatar_url"`
	Format          string                 `json:"format"`
	Ruleset         players.Ruleset        `json:"ruleset"`
	TotalValue      float64                `json:"total_value"`
	DirectorySource string                 `json:"directory_source"`
	Players         []players.MergedPlayer `json:"players"`
}

// FreeAgentsView lists valued players on no roster in the league.
type FreeAgentsView struct {
	Platform players.Platform       `json:"platform"`
	LeagueID string                 `json:"league_id"`
	Format   string                 `json:"format"`
	Ruleset  players.Ruleset        `json:"ruleset"`
	Count    int                    `json:"count"`
	Players  []players.MergedPlayer `json:"players"`
}

// ruleset applies request overrides to a detected format and validates the
// result.
func ruleset(f players.LeagueFormat, o players.RulesetOverride) (players.Ruleset, error) {
	r := o.Apply(f.Ruleset)
	if err := r.Validate(); err != nil {
		return players.Ruleset{}, err
	}
	return r, nil
}

func findRoster(rosters []players.RosterEntry, rosterID string) (players.RosterEntry, bool) {
	for _, r := range rosters {
		if r.RosterID == rosterID {
			return r, true
		}
	}
	return players.RosterEntry{}, false
}
