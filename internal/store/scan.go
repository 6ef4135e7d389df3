package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// ScanPlayers reads the whole player table, following LastEvaluatedKey
// until the scan is exhausted. Any page failure aborts the scan; a partial
// directory is never returned. Rows that fail to decode are logged and
// skipped.
func ScanPlayers(ctx context.Context, ddb DynamoDBAPI, table string, logger *slog.Logger) ([]players.CanonicalPlayer, error) {
	var (
		out     []players.CanonicalPlayer
		lastKey map[string]types.AttributeValue
		pages   int
	)
	for {
		page, err := ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s page %d: %w", table, pages+1, err)
		}
		pages++

		for _, it := range page.Items {
			var p players.CanonicalPlayer
			if err := attributevalue.UnmarshalMap(it, &p); err != nil {
				if logger != nil {
					logger.Warn("skipping undecodable player row", "table", table, "sleeper_id", getStr(it, KeyAttr), "error", err)
				}
				continue
			}
			out = append(out, p)
		}

		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		lastKey = page.LastEvaluatedKey
	}
	if logger != nil {
		logger.Debug("scanned player table", "table", table, "pages", pages, "rows", len(out))
	}
	return out, nil
}
