// Package names normalizes player names so the same person matches across
// Sleeper, Fleaflicker and FantasyCalc.
package names

import (
	"regexp"
	"strings"
)

var (
	reSuffix = regexp.MustCompile(`\b(jr|sr|ii|iii|iv|v)\b`)

	punct = strings.NewReplacer(".", "", "'", "", "’", "", `"`, "", ",", "")
)

// Cleanse lowercases, drops generational suffixes, strips punctuation and
// collapses whitespace. Cleanse(Cleanse(s)) == Cleanse(s).
//
// Punctuation goes before the suffix pass so "J.R." cannot turn into a
// fresh "jr" token that a second pass would strip.
func Cleanse(s string) string {
	if s == "" {
		return ""
	}
	out := punct.Replace(strings.ToLower(s))
	out = reSuffix.ReplaceAllString(out, "")
	return strings.Join(strings.Fields(out), " ")
}

// CleanseAny is the total form of Cleanse: anything that is not a string
// (or a non-nil *string) cleanses to "".
func CleanseAny(v any) string {
	switch t := v.(type) {
	case string:
		return Cleanse(t)
	case *string:
		if t == nil {
			return ""
		}
		return Cleanse(*t)
	default:
		return ""
	}
}
