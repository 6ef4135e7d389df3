package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// MaxBatchGet is the DynamoDB BatchGetItem key limit.
const MaxBatchGet = 100

func keyFor(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		KeyAttr: &types.AttributeValueMemberS{Value: id},
	}
}

// GetPlayer is a point lookup by Sleeper id. found is false when the row
// does not exist.
func GetPlayer(ctx context.Context, ddb DynamoDBAPI, table, id string) (p players.CanonicalPlayer, found bool, err error) {
	out, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       keyFor(id),
	})
	if err != nil {
		return p, false, fmt.Errorf("get %s/%s: %w", table, id, err)
	}
	if len(out.Item) == 0 {
		return p, false, nil
	}
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return p, false, fmt.Errorf("decode %s/%s: %w", table, id, err)
	}
	return p, true, nil
}

// BatchGetAnalysis fetches up to MaxBatchGet analysis rows in one call,
// retrying UnprocessedKeys with backoff. Ids with no row are simply absent
// from the result, as are rows that fail to decode or carry an error flag.
func BatchGetAnalysis(ctx context.Context, ddb DynamoDBAPI, table string, ids []string, logger *slog.Logger) (map[string]players.AnalysisRecord, error) {
	if len(ids) == 0 {
		return map[string]players.AnalysisRecord{}, nil
	}
	if len(ids) > MaxBatchGet {
		return nil, fmt.Errorf("batch get %s: %d keys exceeds limit of %d", table, len(ids), MaxBatchGet)
	}

	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, keyFor(id))
	}
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			table: {Keys: keys},
		},
	}

	res := make(map[string]players.AnalysisRecord, len(ids))
	const maxAttempts = 6
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := ddb.BatchGetItem(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("batch get %s: %w", table, err)
		}
		for _, it := range out.Responses[table] {
			var rec players.AnalysisRecord
			if err := attributevalue.UnmarshalMap(it, &rec); err != nil {
				if logger != nil {
					logger.Warn("skipping undecodable analysis row", "table", table, "sleeper_id", getStr(it, KeyAttr), "error", err)
				}
				continue
			}
			if rec.SleeperID == "" || rec.Error != "" {
				continue
			}
			res[rec.SleeperID.String()] = rec
		}

		pending, ok := out.UnprocessedKeys[table]
		if !ok || len(pending.Keys) == 0 {
			return res, nil
		}
		input.RequestItems = out.UnprocessedKeys
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, err
		}
		if backoff < 2*time.Second {
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("unprocessed keys remained after retries for table %s", table)
}
