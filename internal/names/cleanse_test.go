package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanse(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Odell Beckham Jr.", "odell beckham"},
		{"odell beckham", "odell beckham"},
		{"Amon-Ra St. Brown", "amon-ra st brown"},
		{"D'Andre Swift", "dandre swift"},
		{"Ja’Marr Chase", "jamarr chase"},
		{"Michael Pittman Jr", "michael pittman"},
		{"Marvin Harrison Jr.", "marvin harrison"},
		{"Kenneth Walker III", "kenneth walker"},
		{"Patrick Mahomes II", "patrick mahomes"},
		{"  Josh    Allen  ", "josh allen"},
		{`Travis "The Truck" Etienne`, "travis the truck etienne"},
		{"Smith, John", "smith john"},
		{"Jr Smith", "smith"},
		{"Jrue Holiday", "jrue holiday"},
		{"Vick Ballard", "vick ballard"},
		{"J.R. Smith", "smith"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Cleanse(tc.in), "input %q", tc.in)
	}
}

func TestCleanse_Idempotent(t *testing.T) {
	inputs := []string{
		"Odell Beckham Jr.", "J.R. Smith", "i'i", "A.J. Brown", "C.J. Stroud",
		"DK Metcalf", "T.J. Hockenson", "Gabe Davis V.", "smith-jr", "Ñandú  Sr .",
		"\tTab\nSeparated Name ", "iv.", "Brian Thomas Jr",
	}
	for _, in := range inputs {
		once := Cleanse(in)
		assert.Equal(t, once, Cleanse(once), "input %q", in)
	}
}

func TestCleanseAny(t *testing.T) {
	s := "Bijan Robinson"
	var nilStr *string

	assert.Equal(t, "bijan robinson", CleanseAny(s))
	assert.Equal(t, "bijan robinson", CleanseAny(&s))
	assert.Equal(t, "", CleanseAny(nilStr))
	assert.Equal(t, "", CleanseAny(nil))
	assert.Equal(t, "", CleanseAny(42))
	assert.Equal(t, "", CleanseAny([]string{"x"}))
}
