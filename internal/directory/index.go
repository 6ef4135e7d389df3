package directory

import (
	"cmp"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tyler180/fantasy-roster-values/internal/names"
	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// Load sources.
const (
	SourceRemote   = "remote"
	SourceSnapshot = "snapshot"
)

var reDefenseID = regexp.MustCompile(`^[A-Za-z]{1,3}$`)

// IsDefenseID reports whether an unresolved roster id looks like a team
// defense code (Sleeper rosters list defenses as "SEA", "KC" ...).
func IsDefenseID(id string) bool {
	return reDefenseID.MatchString(id)
}

// Index is one immutable, fully built directory load. Readers never see a
// partially built Index.
type Index struct {
	byID     map[string]players.CanonicalPlayer
	byName   map[string][]string
	ids      []string
	source   string
	loadedAt time.Time
}

// NewIndex builds the id and cleansed-name indexes. Rows without an id are
// skipped; full_name falls back to player_name_original. Later duplicates of
// an id are dropped.
func NewIndex(rows []players.CanonicalPlayer, source string, logger *slog.Logger) *Index {
	ix := &Index{
		byID:     make(map[string]players.CanonicalPlayer, len(rows)),
		byName:   make(map[string][]string, len(rows)),
		source:   source,
		loadedAt: time.Now(),
	}
	skipped := 0
	for _, p := range rows {
		id := strings.TrimSpace(p.ID.String())
		if id == "" {
			skipped++
			continue
		}
		if _, dup := ix.byID[id]; dup {
			continue
		}
		p.ID = players.Text(id)
		p.FullName = p.DisplayName()
		ix.byID[id] = p
		ix.ids = append(ix.ids, id)
	}
	slices.SortFunc(ix.ids, compareIDs)

	// ids are sorted, so each name bucket is in id order.
	for _, id := range ix.ids {
		key := names.Cleanse(ix.byID[id].FullName)
		if key == "" {
			continue
		}
		ix.byName[key] = append(ix.byName[key], id)
	}
	if skipped > 0 && logger != nil {
		logger.Warn("skipped directory rows without sleeper_id", "source", source, "skipped", skipped)
	}
	return ix
}

// compareIDs orders numeric ids by value ("9" before "10") ahead of
// non-numeric ones, which sort as text.
func compareIDs(a, b string) int {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func (ix *Index) Len() int            { return len(ix.byID) }
func (ix *Index) Source() string      { return ix.source }
func (ix *Index) LoadedAt() time.Time { return ix.loadedAt }

// Player looks up by canonical (Sleeper) id.
func (ix *Index) Player(id string) (players.CanonicalPlayer, bool) {
	p, ok := ix.byID[id]
	return p, ok
}

// PlayerByName looks up by cleansed name. When several players share the
// name, the one whose position matches wins, then the lowest id (numeric
// ids compare by value).
func (ix *Index) PlayerByName(key, position string) (players.CanonicalPlayer, bool) {
	ids := ix.byName[key]
	if len(ids) == 0 {
		return players.CanonicalPlayer{}, false
	}
	if position != "" && len(ids) > 1 {
		for _, id := range ids {
			if strings.EqualFold(ix.byID[id].Position, position) {
				return ix.byID[id], true
			}
		}
	}
	return ix.byID[ids[0]], true
}

// All returns every player ordered by id.
func (ix *Index) All() []players.CanonicalPlayer {
	out := make([]players.CanonicalPlayer, 0, len(ix.ids))
	for _, id := range ix.ids {
		out = append(out, ix.byID[id])
	}
	return out
}

// Slot is one resolved roster position.
type Slot struct {
	Player players.CanonicalPlayer
	Match  players.MatchKind
}

// Resolve never fails: unknown ids become a defense placeholder when they
// look like a team code and an unknown-player placeholder otherwise.
func (ix *Index) Resolve(id string) Slot {
	if p, ok := ix.byID[id]; ok {
		return Slot{Player: p, Match: players.MatchID}
	}
	if IsDefenseID(id) {
		return Slot{Player: DefensePlaceholder(id), Match: players.MatchDefense}
	}
	return Slot{Player: UnknownPlaceholder(id, ""), Match: players.MatchUnknown}
}

// Roster resolves ids in order. The result always has len(ids) entries.
func (ix *Index) Roster(ids []string) []Slot {
	out := make([]Slot, len(ids))
	for i, id := range ids {
		out[i] = ix.Resolve(id)
	}
	return out
}

func DefensePlaceholder(id string) players.CanonicalPlayer {
	return players.CanonicalPlayer{
		ID:       players.Text(id),
		FullName: id + " Defense",
		Position: "DEF",
		Team:     id,
	}
}

func UnknownPlaceholder(id, name string) players.CanonicalPlayer {
	if name == "" {
		name = players.UnknownPlayer
	}
	return players.CanonicalPlayer{
		ID:       players.Text(id),
		FullName: name,
		Position: players.DefaultPosition,
		Team:     players.DefaultTeam,
	}
}
