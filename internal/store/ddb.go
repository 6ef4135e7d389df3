package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// KeyAttr is the partition key of the player and analysis tables.
const KeyAttr = "sleeper_id"

// DynamoDBAPI is the slice of the DynamoDB client this package needs.
type DynamoDBAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// PutPlayers upserts directory rows in batches of 25. Rows without an id
// are skipped. Returns the number of rows written.
func PutPlayers(ctx context.Context, ddb DynamoDBAPI, table string, rows []players.CanonicalPlayer) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	const maxBatch = 25
	now := strconv.FormatInt(time.Now().Unix(), 10)

	// BatchWriteItem rejects duplicate keys inside one request.
	seen := make(map[players.Text]struct{}, len(rows))
	written := 0

	for i := 0; i < len(rows); i += maxBatch {
		end := i + maxBatch
		if end > len(rows) {
			end = len(rows)
		}

		reqs := make([]types.WriteRequest, 0, end-i)
		for _, r := range rows[i:end] {
			if r.ID == "" {
				continue
			}
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}

			item, err := attributevalue.MarshalMap(r)
			if err != nil {
				return written, fmt.Errorf("marshal player %s: %w", r.ID, err)
			}
			item[KeyAttr] = &types.AttributeValueMemberS{Value: r.ID.String()}
			item["updated_at"] = &types.AttributeValueMemberN{Value: now}
			reqs = append(reqs, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
		if len(reqs) == 0 {
			continue
		}
		if err := batchWriteWithRetry(ctx, ddb, table, reqs); err != nil {
			return written, fmt.Errorf("batch write players: %w", err)
		}
		written += len(reqs)
	}
	return written, nil
}

func batchWriteWithRetry(ctx context.Context, ddb DynamoDBAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	const maxAttempts = 6
	backoff := 120 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := ddb.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		if err := sleepCtx(ctx, backoff); err != nil {
			return err
		}
		if backoff < 2*time.Second {
			backoff += 120 * time.Millisecond
		}
	}
	return fmt.Errorf("unprocessed items remained after retries for table %s", table)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
