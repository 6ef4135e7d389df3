package fleaflicker

import "github.com/tyler180/fantasy-roster-values/internal/players"

type rostersResponse struct {
	Rosters []Roster `json:"rosters"`
}

type Roster struct {
	Team    Team         `json:"team"`
	Players []RosterItem `json:"players"`
}

type Team struct {
	ID      players.Text `json:"id"`
	Name    string       `json:"name"`
	LogoURL string       `json:"logoUrl"`
	Owners  []Owner      `json:"owners"`
}

type Owner struct {
	ID          players.Text `json:"id"`
	DisplayName string       `json:"displayName"`
	AvatarURL   string       `json:"avatarUrl"`
}

type RosterItem struct {
	ProPlayer *ProPlayer `json:"proPlayer"`
}

type ProPlayer struct {
	ID                  players.Text `json:"id"`
	NameFull            string       `json:"nameFull"`
	NameShort           string       `json:"nameShort"`
	ProTeamAbbreviation string       `json:"proTeamAbbreviation"`
	Position            string       `json:"position"`
}

// Rules is the subset of FetchLeagueRules used for format detection.
type Rules struct {
	RosterPositions []RosterPosition `json:"rosterPositions"`
}

type RosterPosition struct {
	Label       string   `json:"label"`
	Group       string   `json:"group"`
	Eligibility []string `json:"eligibility"`
	Start       int      `json:"start"`
}
