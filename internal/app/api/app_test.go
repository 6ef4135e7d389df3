package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fantasy-roster-values/internal/config"
	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// emptyDDB answers every call with no rows.
type emptyDDB struct{}

func (emptyDDB) Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{}, nil
}

func (emptyDDB) GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func (emptyDDB) BatchGetItem(context.Context, *dynamodb.BatchGetItemInput, ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	return &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]types.AttributeValue{}}, nil
}

func (emptyDDB) BatchWriteItem(context.Context, *dynamodb.BatchWriteItemInput, ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"sleeper_id": "4046", "full_name": "Patrick Mahomes", "position": "QB", "team": "KC"},
		{"sleeper_id": 6794, "player_name_original": "Justin Jefferson", "position": "WR", "team": "MIN"}
	]`), 0o644))
	return config.Config{
		PlayersTable:        "PlayerValues",
		AnalysisTable:       "PlayerValues",
		SnapshotPath:        path,
		UpstreamTimeout:     time.Second,
		AnalysisConcurrency: 2,
		MetricsEnabled:      true,
	}
}

func TestBuild_EmptyTableFallsBackToSnapshot(t *testing.T) {
	app := Build(testConfig(t), nil, emptyDDB{})
	assert.False(t, app.Directory.IsLoaded())

	app.Warm(context.Background())
	require.True(t, app.Directory.IsLoaded())

	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/enriched-players", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got []players.CanonicalPlayer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Justin Jefferson", got[1].FullName)
}

func TestBuild_PlayerLookupMissIs404(t *testing.T) {
	app := Build(testConfig(t), nil, emptyDDB{})
	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/enriched-players/sleeper/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLambdaHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seenID, seenQuery string
	var body []byte
	engine := gin.New()
	engine.POST("/api/enriched-players/batch", func(c *gin.Context) {
		seenID = c.GetHeader("X-Request-ID")
		seenQuery = c.Query("x")
		body, _ = io.ReadAll(c.Request.Body)
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	ev := events.APIGatewayV2HTTPRequest{
		RawPath:         "/api/enriched-players/batch",
		RawQueryString:  "x=1",
		Headers:         map[string]string{"content-type": "application/json"},
		Body:            "eyJzbGVlcGVyX2lkcyI6W119", // {"sleeper_ids":[]}
		IsBase64Encoded: true,
	}
	ev.RequestContext.HTTP.Method = http.MethodPost
	ev.RequestContext.DomainName = "api.example.com"
	ev.RequestContext.RequestID = "req-1"

	resp, err := LambdaHandler(engine)(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, resp.Body)
	assert.Equal(t, "req-1", seenID)
	assert.Equal(t, "1", seenQuery)
	assert.Equal(t, `{"sleeper_ids":[]}`, string(body))
	assert.Len(t, ev.Headers, 1, "caller's headers are not mutated")
}

func TestWithRequestID(t *testing.T) {
	h := map[string]string{"X-Request-Id": "mine"}
	assert.Equal(t, "mine", withRequestID(h, "gw")["X-Request-Id"])
	assert.Len(t, withRequestID(h, "gw"), 1)

	assert.Equal(t, "gw", withRequestID(nil, "gw")["x-request-id"])
	assert.Nil(t, withRequestID(nil, ""))
}
