package store

import (
	"context"
	"log/slog"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

// Table binds a client to one table so callers can depend on small
// interfaces instead of passing names around.
type Table struct {
	DB     DynamoDBAPI
	Name   string
	Logger *slog.Logger
}

func (t Table) ScanPlayers(ctx context.Context) ([]players.CanonicalPlayer, error) {
	return ScanPlayers(ctx, t.DB, t.Name, t.Logger)
}

func (t Table) GetPlayer(ctx context.Context, id string) (players.CanonicalPlayer, bool, error) {
	return GetPlayer(ctx, t.DB, t.Name, id)
}

func (t Table) BatchGetAnalysis(ctx context.Context, ids []string) (map[string]players.AnalysisRecord, error) {
	return BatchGetAnalysis(ctx, t.DB, t.Name, ids, t.Logger)
}

func (t Table) PutPlayers(ctx context.Context, rows []players.CanonicalPlayer) (int, error) {
	return PutPlayers(ctx, t.DB, t.Name, rows)
}
