package snapshot

import (
	"bytes"
	"strings"

	parquet "github.com/parquet-go/parquet-go"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// DirectoryRow is the columnar export of one directory player, for ad hoc
// analysis queries over the table.
type DirectoryRow struct {
	SleeperID          string   `parquet:"sleeper_id"`
	FullName           *string  `parquet:"full_name,optional"`
	Position           *string  `parquet:"position,optional"`
	Team               *string  `parquet:"team,optional"`
	Age                *float64 `parquet:"age,optional"`
	FantasyCalcValue   *float64 `parquet:"fantasy_calc_value,optional"`
	OverallRank        *float64 `parquet:"overall_rank,optional"`
	PositionalRank     *string  `parquet:"positional_rank,optional"`
	Tier               *float64 `parquet:"tier,optional"`
	OneQBRank          *float64 `parquet:"one_qb_rank,optional"`
	OneQBTier          *float64 `parquet:"one_qb_tier,optional"`
	RedraftOverallRank *float64 `parquet:"redraft_overall_rank,optional"`
	RedraftTier        *float64 `parquet:"redraft_tier,optional"`
	ZapScore           *float64 `parquet:"zap_score,optional"`
	Category           *string  `parquet:"category,optional"`
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func numPtr(m players.Metric) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

func toRow(p players.CanonicalPlayer) DirectoryRow {
	return DirectoryRow{
		SleeperID:          p.ID.String(),
		FullName:           strPtr(p.DisplayName()),
		Position:           strPtr(p.Position),
		Team:               strPtr(p.Team),
		Age:                numPtr(p.Age),
		FantasyCalcValue:   numPtr(p.FantasyCalcValue),
		OverallRank:        numPtr(p.OverallRank),
		PositionalRank:     strPtr(p.PositionalRank.String()),
		Tier:               numPtr(p.Tier),
		OneQBRank:          numPtr(p.OneQBRank),
		OneQBTier:          numPtr(p.OneQBTier),
		RedraftOverallRank: numPtr(p.RedraftOverallRank),
		RedraftTier:        numPtr(p.RedraftTier),
		ZapScore:           numPtr(p.ZapScore),
		Category:           strPtr(p.Category.String()),
	}
}

func encodeParquet(rows []players.CanonicalPlayer) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewWriter(&buf, parquet.SchemaOf(new(DirectoryRow)), parquet.Compression(&parquet.Snappy))
	for _, p := range rows {
		if err := w.Write(toRow(p)); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parquetName swaps a .json suffix for .parquet.
func parquetName(name string) string {
	return strings.TrimSuffix(name, ".json") + ".parquet"
}
