package players

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Text is a string field that upstreams sometimes emit as a number
// (sleeper_id in older table rows, Fleaflicker ids).
type Text string

func (t Text) String() string { return string(t) }

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("text: unsupported json value %s", string(b))
	}
	*t = Text(n.String())
	return nil
}

func (t *Text) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		*t = Text(strings.TrimSpace(v.Value))
	case *types.AttributeValueMemberN:
		*t = Text(v.Value)
	case *types.AttributeValueMemberNULL, nil:
		*t = ""
	default:
		return fmt.Errorf("text: unsupported attribute type %T", av)
	}
	return nil
}

func (t Text) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if t == "" {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	return &types.AttributeValueMemberS{Value: string(t)}, nil
}

// Metric is an optional number. Spreadsheet-sourced rows carry "N/A" or
// blanks for missing ranks; those decode to an invalid Metric and encode
// as null.
type Metric struct {
	Value float64
	Valid bool
}

// Num returns a valid Metric.
func Num(v float64) Metric { return Metric{Value: v, Valid: true} }

// Or returns m when valid, otherwise alt.
func (m Metric) Or(alt Metric) Metric {
	if m.Valid {
		return m
	}
	return alt
}

func parseMetric(s string) Metric {
	s = strings.TrimSpace(s)
	if s == "" {
		return Metric{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Metric{}
	}
	return Num(f)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid || math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(m.Value, 'f', -1, 64)), nil
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = Metric{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = parseMetric(s)
		return nil
	}
	*m = parseMetric(string(b))
	return nil
}

func (m *Metric) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		*m = parseMetric(v.Value)
	case *types.AttributeValueMemberS:
		*m = parseMetric(v.Value)
	default:
		*m = Metric{}
	}
	return nil
}

func (m Metric) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if !m.Valid || math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(m.Value, 'f', -1, 64)}, nil
}
