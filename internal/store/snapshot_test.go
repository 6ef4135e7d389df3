package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

func TestDecodeSnapshot_Array(t *testing.T) {
	got, err := DecodeSnapshot(strings.NewReader(`[
		{"sleeper_id": "4046", "full_name": "Patrick Mahomes", "position": "QB"},
		{"sleeper_id": 6794, "player_name_original": "Justin Jefferson"}
	]`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(got) != 2 || got[1].ID != "6794" || got[1].DisplayName() != "Justin Jefferson" {
		t.Fatalf("unexpected rows %+v", got)
	}
}

func TestDecodeSnapshot_ObjectKeyedByID(t *testing.T) {
	got, err := DecodeSnapshot(strings.NewReader(`{
		"6794": {"full_name": "Justin Jefferson"},
		"4046": {"sleeper_id": "4046", "full_name": "Patrick Mahomes"}
	}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(got) != 2 || got[0].ID != "4046" || got[1].ID != "6794" {
		t.Fatalf("unexpected rows %+v", got)
	}
}

func TestDecodeSnapshot_Empty(t *testing.T) {
	for _, in := range []string{"", "[]", "{}"} {
		if _, err := DecodeSnapshot(strings.NewReader(in)); !errors.Is(err, ErrEmptySnapshot) {
			t.Fatalf("%q: expected ErrEmptySnapshot, got %v", in, err)
		}
	}
	if _, err := DecodeSnapshot(strings.NewReader(`"nope"`)); err == nil {
		t.Fatalf("expected error for scalar snapshot")
	}
}

func TestWriteSnapshot_LoadSnapshot(t *testing.T) {
	rows := []players.CanonicalPlayer{
		{ID: "4046", FullName: "Patrick Mahomes", Position: "QB", Team: "KC", Age: players.Num(29)},
	}
	rows[0].Tier = players.Num(1)

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, rows); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	path := filepath.Join(t.TempDir(), "players.json")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got) != 1 || got[0].Tier != players.Num(1) || got[0].Team != "KC" {
		t.Fatalf("unexpected rows %+v", got)
	}

	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
