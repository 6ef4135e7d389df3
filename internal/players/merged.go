package players

// MatchKind records how a roster slot or valuation was resolved.
type MatchKind string

const (
	MatchID      MatchKind = "id"
	MatchName    MatchKind = "name"
	MatchDefense MatchKind = "defense"
	MatchUnknown MatchKind = "unknown"
	MatchNone    MatchKind = "none"
)

// Defaults for fields no source could fill.
const (
	DefaultTeam     = "FA"
	DefaultPosition = "N/A"
	UnknownPlayer   = "Unknown Player"
)

// MergedPlayer is the presentation record for one roster slot.
type MergedPlayer struct {
	RosterRank    int       `json:"roster_rank"`
	PlayerID      string    `json:"player_id"`
	SleeperID     string    `json:"sleeper_id,omitempty"`
	FleaflickerID string    `json:"fleaflicker_id,omitempty"`
	FullName      string    `json:"full_name"`
	Position      string    `json:"position"`
	Team          string    `json:"team"`
	Age           Metric    `json:"age"`
	Match         MatchKind `json:"match"`

	FantasyCalcValue float64   `json:"fantasy_calc_value"`
	TradeValue       float64   `json:"trade_value"`
	FCRank           Metric    `json:"fc_rank"`
	FCPositionRank   Metric    `json:"fc_position_rank"`
	Trend30Day       Metric    `json:"trend_30_day"`
	RedraftValue     Metric    `json:"redraft_value"`
	ValueMatch       MatchKind `json:"value_match"`

	Analysis
}
