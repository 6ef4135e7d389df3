package players

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPlayer_FromDynamoItem(t *testing.T) {
	item := map[string]types.AttributeValue{
		"sleeper_id":      &types.AttributeValueMemberN{Value: "4046"},
		"full_name":       &types.AttributeValueMemberS{Value: "Patrick Mahomes"},
		"position":        &types.AttributeValueMemberS{Value: "QB"},
		"team":            &types.AttributeValueMemberS{Value: "KC"},
		"age":             &types.AttributeValueMemberN{Value: "29"},
		"tier":            &types.AttributeValueMemberS{Value: "N/A"},
		"overall_rank":    &types.AttributeValueMemberS{Value: "3"},
		"positional_rank": &types.AttributeValueMemberS{Value: "QB2"},
		"zap_score":       &types.AttributeValueMemberNULL{Value: true},
	}

	var p CanonicalPlayer
	require.NoError(t, attributevalue.UnmarshalMap(item, &p))

	assert.Equal(t, Text("4046"), p.ID)
	assert.Equal(t, "Patrick Mahomes", p.DisplayName())
	assert.Equal(t, Num(29), p.Age)
	assert.False(t, p.Tier.Valid)
	assert.Equal(t, Num(3), p.OverallRank)
	assert.Equal(t, Text("QB2"), p.PositionalRank)
	assert.False(t, p.ZapScore.Valid)
}

func TestCanonicalPlayer_FromSnapshotJSON(t *testing.T) {
	raw := `{"sleeper_id": 6794, "player_name_original": "Justin Jefferson", "age": "25", "tier": "", "one_qb_rank": 4}`

	var p CanonicalPlayer
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, Text("6794"), p.ID)
	assert.Equal(t, "Justin Jefferson", p.DisplayName())
	assert.Equal(t, Num(25), p.Age)
	assert.False(t, p.Tier.Valid)
	assert.Equal(t, Num(4), p.OneQBRank)

	out, err := json.Marshal(p.Analysis)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"tier":null`)
	assert.Contains(t, string(out), `"one_qb_rank":4`)
}

func TestCanonicalPlayer_NonFiniteMetricsAreMissing(t *testing.T) {
	raw := `{"sleeper_id": "4046", "tier": "nan", "overall_rank": "Infinity", "zap_score": "-Inf", "one_qb_rank": "NaN"}`

	var p CanonicalPlayer
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.False(t, p.Tier.Valid)
	assert.False(t, p.OverallRank.Valid)
	assert.False(t, p.ZapScore.Valid)
	assert.False(t, p.OneQBRank.Valid)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"tier":null`)
	assert.Contains(t, string(out), `"overall_rank":null`)

	var m Metric
	require.NoError(t, m.UnmarshalDynamoDBAttributeValue(&types.AttributeValueMemberS{Value: "NaN"}))
	assert.False(t, m.Valid)

	b, err := json.Marshal(Num(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestRuleset_Validate(t *testing.T) {
	assert.NoError(t, DefaultRuleset().Validate())
	assert.NoError(t, Ruleset{NumQBs: 1, PPR: 0.5, NumTeams: 10}.Validate())

	bad := []Ruleset{
		{NumQBs: 3, PPR: 1, NumTeams: 12},
		{NumQBs: 2, PPR: 0.25, NumTeams: 12},
		{NumQBs: 2, PPR: 1, NumTeams: 0},
	}
	for _, r := range bad {
		assert.ErrorIs(t, r.Validate(), ErrInvalidRuleset, "%+v", r)
	}
}

func TestRulesetOverride_Apply(t *testing.T) {
	no := false
	one := 1
	half := 0.5
	got := RulesetOverride{IsDynasty: &no, NumQBs: &one, PPR: &half}.Apply(DefaultRuleset())
	assert.Equal(t, Ruleset{IsDynasty: false, NumQBs: 1, PPR: 0.5, NumTeams: 12}, got)
}

func TestClassifyFormat(t *testing.T) {
	cases := []struct {
		dynasty bool
		qb, sf  int
		label   string
		wantQBs int
	}{
		{true, 1, 0, FormatOneQB, 1},
		{true, 1, 1, FormatSuperflex, 2},
		{true, 2, 0, FormatSuperflex, 2},
		{true, 0, 0, FormatSuperflex, 2},
		{false, 1, 0, FormatRedraft, 1},
		{false, 1, 1, FormatRedraft, 2},
	}
	for _, tc := range cases {
		label, n := ClassifyFormat(tc.dynasty, tc.qb, tc.sf)
		assert.Equal(t, tc.label, label)
		assert.Equal(t, tc.wantQBs, n)
	}
}

func TestValuations_Lookup(t *testing.T) {
	vs := NewValuations(2)
	assert.True(t, vs.Add("patrick mahomes", Valuation{Name: "Patrick Mahomes", SleeperID: "4046", Value: 9000}))
	assert.False(t, vs.Add("patrick mahomes", Valuation{Name: "Patrick Mahomes", Value: 1}))
	vs.Add("josh allen", Valuation{Name: "Josh Allen", Value: 9500})

	v, kind := vs.Lookup("4046", "someone else")
	assert.Equal(t, MatchID, kind)
	assert.Equal(t, 9000.0, v.Value)

	v, kind = vs.Lookup("", "josh allen")
	assert.Equal(t, MatchName, kind)
	assert.Equal(t, 9500.0, v.Value)

	_, kind = vs.Lookup("1", "nobody")
	assert.Equal(t, MatchNone, kind)

	var zero Valuations
	_, kind = zero.Lookup("4046", "patrick mahomes")
	assert.Equal(t, MatchNone, kind)
	assert.Empty(t, zero.Named())
}
