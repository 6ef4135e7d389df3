package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

var ErrEmptySnapshot = errors.New("snapshot contains no players")

// LoadSnapshot reads the local directory snapshot file.
func LoadSnapshot(path string) ([]players.CanonicalPlayer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return DecodeSnapshot(f)
}

// DecodeSnapshot accepts either a JSON array of player records or an
// object keyed by Sleeper id. Object entries without their own sleeper_id
// take the key.
func DecodeSnapshot(r io.Reader) ([]players.CanonicalPlayer, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrEmptySnapshot
	}

	var out []players.CanonicalPlayer
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
	case '{':
		var byID map[string]players.CanonicalPlayer
		if err := json.Unmarshal(raw, &byID); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
		keys := make([]string, 0, len(byID))
		for k := range byID {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out = make([]players.CanonicalPlayer, 0, len(byID))
		for _, k := range keys {
			p := byID[k]
			if p.ID == "" {
				p.ID = players.Text(k)
			}
			out = append(out, p)
		}
	default:
		return nil, fmt.Errorf("failed to decode JSON: snapshot must be an array or object")
	}
	if len(out) == 0 {
		return nil, ErrEmptySnapshot
	}
	return out, nil
}

// WriteSnapshot encodes rows as a JSON array, the format LoadSnapshot reads.
func WriteSnapshot(w io.Writer, rows []players.CanonicalPlayer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}
