// Package snapshot keeps the directory's fallback snapshot and the player
// table in step: export scans the table into a snapshot, import loads a
// snapshot back into the table.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tyler180/fantasy-roster-values/internal/config"
	"github.com/tyler180/fantasy-roster-values/internal/logging"
	"github.com/tyler180/fantasy-roster-values/internal/store"
)

const (
	ModeExport = "export_snapshot"
	ModeImport = "import_snapshot"
)

// S3API is the slice of the S3 client the job uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LambdaEntrypoint is the single Lambda handler exported from this package.
func LambdaEntrypoint(ctx context.Context, raw Raw) (string, error) {
	var e Event
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &e); err != nil {
			return "", fmt.Errorf("decode event: %w", err)
		}
	}
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return "", err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return "", fmt.Errorf("aws config: %w", err)
	}
	ddb := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBURL != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBURL)
		}
	})
	return Run(ctx, ddb, s3.NewFromConfig(awsCfg), resolve(e, cfg), cfg.Debug)
}

// resolve fills unset event fields from configuration. Nothing is written
// back to the environment, so a warm container never keeps a previous
// invocation's overrides.
func resolve(e Event, cfg config.Config) Job {
	pick := func(ev, def string) string {
		if s := strings.TrimSpace(ev); s != "" {
			return s
		}
		return def
	}
	mode := strings.TrimSpace(e.Mode)
	if mode == "" {
		mode = ModeExport
	}
	return Job{
		Mode:    mode,
		Table:   pick(e.Table, cfg.PlayersTable),
		Bucket:  pick(e.Bucket, cfg.SnapshotBucket),
		Key:     pick(e.Key, cfg.SnapshotKey),
		Path:    pick(e.Path, cfg.SnapshotPath),
		DryRun:  e.DryRun,
		Parquet: e.Parquet,
	}
}

func Run(ctx context.Context, ddb store.DynamoDBAPI, s3c S3API, j Job, debug bool) (string, error) {
	if j.Table == "" {
		return "", fmt.Errorf("%s: player table is required", j.Mode)
	}
	switch j.Mode {
	case ModeExport:
		return runExport(ctx, ddb, s3c, j, debug)
	case ModeImport:
		return runImport(ctx, ddb, s3c, j, debug)
	default:
		return "", fmt.Errorf("unknown mode %q", j.Mode)
	}
}

func runExport(ctx context.Context, ddb store.DynamoDBAPI, s3c S3API, j Job, debug bool) (string, error) {
	level := "info"
	if debug {
		level = "debug"
	}
	logger := logging.NewLogger(logging.Config{Level: level, Service: "snapshot-sync"})

	rows, err := store.ScanPlayers(ctx, ddb, j.Table, logger)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		// An empty table must never replace a good snapshot.
		return "", fmt.Errorf("export %s: %w", j.Table, store.ErrEmptySnapshot)
	}
	var buf bytes.Buffer
	if err := store.WriteSnapshot(&buf, rows); err != nil {
		return "", err
	}
	if j.DryRun {
		log.Printf("OK snapshot[export]: dry run, %d players (%d bytes) from %s", len(rows), buf.Len(), j.Table)
		return fmt.Sprintf("exported=%d dry_run=true", len(rows)), nil
	}

	var columnar []byte
	if j.Parquet {
		if columnar, err = encodeParquet(rows); err != nil {
			return "", fmt.Errorf("encode parquet: %w", err)
		}
	}

	wrote := 0
	if j.Path != "" {
		if err := writeFileAtomic(j.Path, buf.Bytes()); err != nil {
			return "", err
		}
		if columnar != nil {
			if err := writeFileAtomic(parquetName(j.Path), columnar); err != nil {
				return "", err
			}
		}
		wrote++
	}
	if j.Bucket != "" && s3c != nil {
		if err := putObject(ctx, s3c, j.Bucket, j.Key, "application/json", buf.Bytes()); err != nil {
			return "", err
		}
		if columnar != nil {
			if err := putObject(ctx, s3c, j.Bucket, parquetName(j.Key), "application/vnd.apache.parquet", columnar); err != nil {
				return "", err
			}
		}
		wrote++
	}
	if wrote == 0 {
		return "", fmt.Errorf("export: no destination (set path or bucket)")
	}
	log.Printf("OK snapshot[export]: %d players from %s (path=%q bucket=%q key=%q)", len(rows), j.Table, j.Path, j.Bucket, j.Key)
	return fmt.Sprintf("exported=%d", len(rows)), nil
}

func runImport(ctx context.Context, ddb store.DynamoDBAPI, s3c S3API, j Job, debug bool) (string, error) {
	r, src, err := openSource(ctx, s3c, j)
	if err != nil {
		return "", err
	}
	defer r.Close()

	rows, err := store.DecodeSnapshot(r)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", src, err)
	}
	if debug {
		log.Printf("snapshot[import]: decoded %d players from %s", len(rows), src)
	}
	if j.DryRun {
		log.Printf("OK snapshot[import]: dry run, %d players from %s", len(rows), src)
		return fmt.Sprintf("imported=0 decoded=%d dry_run=true", len(rows)), nil
	}
	n, err := store.PutPlayers(ctx, ddb, j.Table, rows)
	if err != nil {
		return "", err
	}
	log.Printf("OK snapshot[import]: wrote %d of %d players from %s to %s", n, len(rows), src, j.Table)
	return fmt.Sprintf("imported=%d", n), nil
}

func putObject(ctx context.Context, s3c S3API, bucket, key, contentType string, body []byte) error {
	_, err := s3c.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// openSource prefers S3 when a bucket is set.
func openSource(ctx context.Context, s3c S3API, j Job) (io.ReadCloser, string, error) {
	if j.Bucket != "" && s3c != nil {
		src := fmt.Sprintf("s3://%s/%s", j.Bucket, j.Key)
		out, err := s3c.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(j.Bucket),
			Key:    aws.String(j.Key),
		})
		if err != nil {
			return nil, src, fmt.Errorf("get %s: %w", src, err)
		}
		return out.Body, src, nil
	}
	if j.Path == "" {
		return nil, "", fmt.Errorf("import: no source (set path or bucket)")
	}
	f, err := os.Open(j.Path)
	if err != nil {
		return nil, j.Path, fmt.Errorf("open snapshot: %w", err)
	}
	return f, j.Path, nil
}

func writeFileAtomic(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
