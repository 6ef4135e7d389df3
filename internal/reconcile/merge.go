// Package reconcile joins roster slots with the player directory, market
// valuations and stored analysis. Everything here is a pure function of its
// inputs.
package reconcile

import (
	"github.com/tyler180/fantasy-roster-values/internal/directory"
	"github.com/tyler180/fantasy-roster-values/internal/names"
	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// Directory is the read side of a loaded player directory.
type Directory interface {
	Player(id string) (players.CanonicalPlayer, bool)
	PlayerByName(key, position string) (players.CanonicalPlayer, bool)
}

// identity is a roster slot resolved against the directory.
type identity struct {
	player players.CanonicalPlayer
	match  players.MatchKind
	// nameKey is the cleansed name used for the valuation fallback. Empty
	// for placeholders that carry no real name.
	nameKey string
}

func (id identity) resolved() bool {
	return id.match == players.MatchID || id.match == players.MatchName
}

// resolve prefers the platform's canonical id. Refs without one (Fleaflicker)
// go through the cleansed-name index. Unresolved slots become placeholders.
func resolve(ref players.PlayerRef, dir Directory) identity {
	refKey := names.Cleanse(ref.FullName)

	if ref.CanonicalID != "" {
		if p, ok := dir.Player(ref.CanonicalID); ok {
			key := refKey
			if key == "" {
				key = names.Cleanse(p.DisplayName())
			}
			return identity{player: p, match: players.MatchID, nameKey: key}
		}
		if directory.IsDefenseID(ref.CanonicalID) {
			p := directory.DefensePlaceholder(ref.CanonicalID)
			return identity{player: p, match: players.MatchDefense, nameKey: names.Cleanse(p.FullName)}
		}
		return identity{
			player:  directory.UnknownPlaceholder(ref.CanonicalID, ref.FullName),
			match:   players.MatchUnknown,
			nameKey: refKey,
		}
	}

	if refKey != "" {
		if p, ok := dir.PlayerByName(refKey, ref.Position); ok {
			return identity{player: p, match: players.MatchName, nameKey: refKey}
		}
	}
	return identity{
		player:  directory.UnknownPlaceholder("", ref.FullName),
		match:   players.MatchUnknown,
		nameKey: refKey,
	}
}

// Merge produces one record per roster slot, in roster order. Slots that
// resolve nowhere are still emitted.
//
// Valuations are looked up by canonical id first and by cleansed name
// second. Analysis comes from the batch result keyed by canonical id, else
// from the directory row, and only ever contributes rank, tier and note
// fields. Position and team come from the valuation, then the directory,
// then the platform.
func Merge(roster players.RosterEntry, dir Directory, vals players.Valuations, analysis map[string]players.AnalysisRecord) []players.MergedPlayer {
	out := make([]players.MergedPlayer, 0, len(roster.Players))
	for i, ref := range roster.Players {
		out = append(out, mergeOne(i+1, roster.Platform, ref, dir, vals, analysis))
	}
	return out
}

func mergeOne(rank int, platform players.Platform, ref players.PlayerRef, dir Directory, vals players.Valuations, analysis map[string]players.AnalysisRecord) players.MergedPlayer {
	id := resolve(ref, dir)
	p := id.player
	canonicalID := p.ID.String()

	m := players.MergedPlayer{
		RosterRank: rank,
		PlayerID:   canonicalID,
		FullName:   p.DisplayName(),
		Position:   firstNonEmpty(p.Position, ref.Position),
		Team:       firstNonEmpty(p.Team, ref.Team),
		Age:        p.Age.Or(ref.Age),
		Match:      id.match,
		ValueMatch: players.MatchNone,
	}
	if id.match == players.MatchUnknown {
		// Placeholder defaults must not hide what the platform reported.
		m.Position, m.Team = ref.Position, ref.Team
	}
	if id.resolved() {
		m.SleeperID = canonicalID
		m.Analysis = p.Analysis
	}
	if platform == players.Fleaflicker {
		m.FleaflickerID = ref.PlatformID
	}
	if m.PlayerID == "" {
		m.PlayerID = ref.PlatformID
	}

	if v, kind := vals.Lookup(canonicalID, id.nameKey); kind != players.MatchNone {
		m.ValueMatch = kind
		m.FantasyCalcValue = v.Value
		m.TradeValue = v.Value
		m.FCRank = v.OverallRank
		m.FCPositionRank = v.PositionRank
		m.Trend30Day = v.Trend30Day
		m.RedraftValue = v.RedraftValue
		m.Position = firstNonEmpty(v.Position, m.Position)
		m.Team = firstNonEmpty(v.Team, m.Team)
	}

	// The batch record replaces the directory copy wholesale; its value
	// fields are stale and never read.
	if rec, ok := analysis[canonicalID]; ok && canonicalID != "" {
		m.Analysis = rec.Analysis
	}

	m.FullName = firstNonEmpty(m.FullName, players.UnknownPlayer)
	m.Position = firstNonEmpty(m.Position, players.DefaultPosition)
	m.Team = firstNonEmpty(m.Team, players.DefaultTeam)
	return m
}

// CanonicalIDs returns the distinct directory ids the roster resolves to, in
// first-seen order. Placeholders are left out.
func CanonicalIDs(roster players.RosterEntry, dir Directory) []string {
	seen := make(map[string]struct{}, len(roster.Players))
	out := make([]string, 0, len(roster.Players))
	for _, ref := range roster.Players {
		id := resolve(ref, dir)
		if !id.resolved() {
			continue
		}
		cid := id.player.ID.String()
		if _, dup := seen[cid]; dup {
			continue
		}
		seen[cid] = struct{}{}
		out = append(out, cid)
	}
	return out
}

// Stats counts identity matches by kind and valuation matches as
// "value_<kind>".
func Stats(merged []players.MergedPlayer) map[string]int {
	counts := make(map[string]int, 8)
	for _, m := range merged {
		counts[string(m.Match)]++
		counts["value_"+string(m.ValueMatch)]++
	}
	return counts
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
