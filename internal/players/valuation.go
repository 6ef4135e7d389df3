package players

// Valuation is one market value record from FantasyCalc.
type Valuation struct {
	Name         string  `json:"name"`
	SleeperID    string  `json:"sleeperId,omitempty"`
	Position     string  `json:"position,omitempty"`
	Team         string  `json:"team,omitempty"`
	Value        float64 `json:"value"`
	OverallRank  Metric  `json:"overallRank"`
	PositionRank Metric  `json:"positionRank"`
	Trend30Day   Metric  `json:"trend30Day"`
	RedraftValue Metric  `json:"redraftValue"`
}

// Valuations is a per-request valuation map keyed both by cleansed name and
// by Sleeper id. The zero value is an empty map.
type Valuations struct {
	byName map[string]Valuation
	byID   map[string]Valuation
}

// NewValuations builds an empty container sized for n records.
func NewValuations(n int) Valuations {
	return Valuations{
		byName: make(map[string]Valuation, n),
		byID:   make(map[string]Valuation, n),
	}
}

// Add indexes v under key (a cleansed name) and its Sleeper id. The first
// record for a key wins. Add reports whether the name key was new.
func (vs *Valuations) Add(key string, v Valuation) bool {
	if vs.byName == nil {
		*vs = NewValuations(0)
	}
	if v.SleeperID != "" {
		if _, dup := vs.byID[v.SleeperID]; !dup {
			vs.byID[v.SleeperID] = v
		}
	}
	if key == "" {
		return false
	}
	if _, dup := vs.byName[key]; dup {
		return false
	}
	vs.byName[key] = v
	return true
}

func (vs Valuations) ByID(id string) (Valuation, bool) {
	if id == "" {
		return Valuation{}, false
	}
	v, ok := vs.byID[id]
	return v, ok
}

func (vs Valuations) ByName(key string) (Valuation, bool) {
	if key == "" {
		return Valuation{}, false
	}
	v, ok := vs.byName[key]
	return v, ok
}

// Lookup tries the id first and falls back to the cleansed name key.
func (vs Valuations) Lookup(id, key string) (Valuation, MatchKind) {
	if v, ok := vs.ByID(id); ok {
		return v, MatchID
	}
	if v, ok := vs.ByName(key); ok {
		return v, MatchName
	}
	return Valuation{}, MatchNone
}

// Len is the number of distinct name keys.
func (vs Valuations) Len() int { return len(vs.byName) }

// Named returns the name-keyed view. Callers must not modify it.
func (vs Valuations) Named() map[string]Valuation {
	if vs.byName == nil {
		return map[string]Valuation{}
	}
	return vs.byName
}
