// Package players holds the shared roster, directory and valuation types.
package players

// Analysis is the slow-changing enrichment attached to a canonical player:
// ranks, tiers and narrative notes. It never carries valuations.
type Analysis struct {
	OverallRank        Metric `json:"overall_rank" dynamodbav:"overall_rank,omitempty"`
	PositionalRank     Text   `json:"positional_rank,omitempty" dynamodbav:"positional_rank,omitempty"`
	Tier               Metric `json:"tier" dynamodbav:"tier,omitempty"`
	OneQBRank          Metric `json:"one_qb_rank" dynamodbav:"one_qb_rank,omitempty"`
	OneQBTier          Metric `json:"one_qb_tier" dynamodbav:"one_qb_tier,omitempty"`
	OneQBPosRank       Text   `json:"one_qb_pos_rank,omitempty" dynamodbav:"one_qb_pos_rank,omitempty"`
	RedraftOverallRank Metric `json:"redraft_overall_rank" dynamodbav:"redraft_overall_rank,omitempty"`
	RedraftTier        Metric `json:"redraft_tier" dynamodbav:"redraft_tier,omitempty"`
	ZapScore           Metric `json:"zap_score" dynamodbav:"zap_score,omitempty"`
	Category           Text   `json:"category,omitempty" dynamodbav:"category,omitempty"`
	Comparables        Text   `json:"comparables,omitempty" dynamodbav:"comparables,omitempty"`
	DraftCapitalDelta  Metric `json:"draft_capital_delta" dynamodbav:"draft_capital_delta,omitempty"`
	NotesLRQB          Text   `json:"notes_lrqb,omitempty" dynamodbav:"notes_lrqb,omitempty"`
	RSPPosRank         Text   `json:"rsp_pos_rank,omitempty" dynamodbav:"rsp_pos_rank,omitempty"`
	RSP2023To2025Rank  Metric `json:"rsp_2023_2025_rank" dynamodbav:"rsp_2023_2025_rank,omitempty"`
	RP2021To2025Rank   Metric `json:"rp_2021_2025_rank" dynamodbav:"rp_2021_2025_rank,omitempty"`
	ComparisonSpectrum Text   `json:"comparison_spectrum,omitempty" dynamodbav:"comparison_spectrum,omitempty"`
	DepthOfTalentScore Metric `json:"depth_of_talent_score" dynamodbav:"depth_of_talent_score,omitempty"`
	DepthOfTalentDesc  Text   `json:"depth_of_talent_desc,omitempty" dynamodbav:"depth_of_talent_desc,omitempty"`
	NotesRSP           Text   `json:"notes_rsp,omitempty" dynamodbav:"notes_rsp,omitempty"`
}

// CanonicalPlayer is one row of the player directory. ID is the Sleeper
// player id, which the whole system uses as the canonical identity.
type CanonicalPlayer struct {
	ID           Text   `json:"sleeper_id" dynamodbav:"sleeper_id"`
	FullName     string `json:"full_name" dynamodbav:"full_name,omitempty"`
	NameOriginal string `json:"player_name_original,omitempty" dynamodbav:"player_name_original,omitempty"`
	Position     string `json:"position,omitempty" dynamodbav:"position,omitempty"`
	Team         string `json:"team,omitempty" dynamodbav:"team,omitempty"`
	Age          Metric `json:"age" dynamodbav:"age,omitempty"`
	// Written by the enrichment job. Roster merges always use a fresh
	// valuation instead.
	FantasyCalcValue Metric `json:"fantasy_calc_value" dynamodbav:"fantasy_calc_value,omitempty"`

	Analysis
}

// DisplayName returns full_name, falling back to player_name_original.
func (p CanonicalPlayer) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.NameOriginal
}

// AnalysisRecord is what the analysis store returns for one id.
type AnalysisRecord struct {
	SleeperID Text   `json:"sleeper_id" dynamodbav:"sleeper_id"`
	FullName  string `json:"full_name,omitempty" dynamodbav:"full_name,omitempty"`

	Analysis

	FantasyCalcValue Metric `json:"fantasy_calc_value" dynamodbav:"fantasy_calc_value,omitempty"`
	TradeValue       Metric `json:"trade_value" dynamodbav:"trade_value,omitempty"`
	// Error is set on rows the enrichment job could not process.
	Error string `json:"error,omitempty" dynamodbav:"error,omitempty"`
}

// PlayerRef identifies a roster slot as the platform reported it. Sleeper
// refs carry CanonicalID; Fleaflicker refs only have a platform id and name.
type PlayerRef struct {
	CanonicalID string `json:"sleeper_id,omitempty"`
	PlatformID  string `json:"platform_id"`
	FullName    string `json:"full_name,omitempty"`
	Position    string `json:"position,omitempty"`
	Team        string `json:"team,omitempty"`
	Age         Metric `json:"age"`
}

// RosterEntry is one team in a league.
type RosterEntry struct {
	Platform  Platform    `json:"platform"`
	RosterID  string      `json:"roster_id"`
	OwnerID   string      `json:"owner_id,omitempty"`
	OwnerName string      `json:"owner_name"`
	AvatarURL *string     `json:"avatar_url"`
	Players   []PlayerRef `json:"players"`
	Starters  []string    `json:"starters,omitempty"`
}

// UnknownOwner is the display name for rosters without an owner.
const UnknownOwner = "Unknown Owner"

type Manager struct {
	RosterID    string  `json:"roster_id"`
	UserID      string  `json:"user_id,omitempty"`
	DisplayName string  `json:"display_name"`
	TeamName    string  `json:"team_name,omitempty"`
	AvatarURL   *string `json:"avatar_url"`
}

// Platform names a roster source.
type Platform string

const (
	Sleeper     Platform = "sleeper"
	Fleaflicker Platform = "fleaflicker"
)
