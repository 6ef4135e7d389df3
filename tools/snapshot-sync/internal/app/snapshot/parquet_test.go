package snapshot

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	parquet "github.com/parquet-go/parquet-go"
)

func TestExportParquetCopy(t *testing.T) {
	src := &fakeDDB{items: []map[string]types.AttributeValue{row("4046", "Patrick Mahomes"), row("6794", "Justin Jefferson")}}
	bucket := &fakeS3{objects: map[string][]byte{}}
	path := filepath.Join(t.TempDir(), "players.json")

	job := Job{Mode: ModeExport, Table: "PlayerValues", Bucket: "snaps", Key: "dir/players.json", Path: path, Parquet: true}
	if _, err := Run(context.Background(), src, bucket, job, false); err != nil {
		t.Fatalf("export: %v", err)
	}

	b, ok := bucket.objects["snaps/dir/players.parquet"]
	if !ok {
		t.Fatalf("parquet copy not uploaded; have %d objects", len(bucket.objects))
	}
	rows, err := parquet.Read[DirectoryRow](bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	got := map[string]DirectoryRow{}
	for _, r := range rows {
		got[r.SleeperID] = r
	}
	mahomes := got["4046"]
	if mahomes.FullName == nil || *mahomes.FullName != "Patrick Mahomes" {
		t.Fatalf("unexpected name: %+v", mahomes)
	}
	if mahomes.Tier == nil || *mahomes.Tier != 2 {
		t.Fatalf("tier = %v, want 2", mahomes.Tier)
	}
	if mahomes.OverallRank != nil {
		t.Fatalf("missing rank should be null, got %v", *mahomes.OverallRank)
	}
}

func TestParquetName(t *testing.T) {
	cases := map[string]string{
		"dir/players.json": "dir/players.parquet",
		"players":          "players.parquet",
	}
	for in, want := range cases {
		if got := parquetName(in); got != want {
			t.Errorf("parquetName(%q) = %q, want %q", in, got, want)
		}
	}
}
