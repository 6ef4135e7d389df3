package sleeper

import "github.com/tyler180/fantasy-roster-values/internal/players"

// League is the subset of GET /league/{id} this service reads.
type League struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	TotalRosters    int                `json:"total_rosters"`
	RosterPositions []string           `json:"roster_positions"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	Settings        struct {
		// 0 redraft, 1 keeper, 2 dynasty
		Type int `json:"type"`
	} `json:"settings"`
}

type Roster struct {
	RosterID players.Text `json:"roster_id"`
	OwnerID  players.Text `json:"owner_id"`
	Players  []string     `json:"players"`
	Starters []string     `json:"starters"`
	Reserve  []string     `json:"reserve"`
	Taxi     []string     `json:"taxi"`
}

type User struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Metadata    struct {
		TeamName string `json:"team_name"`
	} `json:"metadata"`
}
