package fantasycalc

import "github.com/tyler180/fantasy-roster-values/internal/players"

// record is one element of the /values/current array.
type record struct {
	Player struct {
		Name      string         `json:"name"`
		SleeperID players.Text   `json:"sleeperId"`
		Position  string         `json:"position"`
		MaybeTeam string         `json:"maybeTeam"`
		MaybeAge  players.Metric `json:"maybeAge"`
	} `json:"player"`
	Value        float64        `json:"value"`
	OverallRank  players.Metric `json:"overallRank"`
	PositionRank players.Metric `json:"positionRank"`
	Trend30Day   players.Metric `json:"trend30Day"`
	RedraftValue players.Metric `json:"redraftValue"`
}
