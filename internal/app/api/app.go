// Package api wires configuration, storage, upstream clients and the HTTP
// router into a runnable service.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"

	"github.com/tyler180/fantasy-roster-values/internal/analysis"
	"github.com/tyler180/fantasy-roster-values/internal/config"
	"github.com/tyler180/fantasy-roster-values/internal/directory"
	"github.com/tyler180/fantasy-roster-values/internal/fantasycalc"
	"github.com/tyler180/fantasy-roster-values/internal/fleaflicker"
	"github.com/tyler180/fantasy-roster-values/internal/httpapi"
	"github.com/tyler180/fantasy-roster-values/internal/metrics"
	"github.com/tyler180/fantasy-roster-values/internal/roster"
	"github.com/tyler180/fantasy-roster-values/internal/sleeper"
	"github.com/tyler180/fantasy-roster-values/internal/store"
	"github.com/tyler180/fantasy-roster-values/internal/upstream"
)

type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	Directory *directory.Directory
	Service   *roster.Service
	Handler   *gin.Engine
}

// New loads AWS settings and builds the app against DynamoDB.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	ddb := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBURL != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBURL)
		}
	})
	return Build(cfg, logger, ddb), nil
}

// Build assembles the app on an existing DynamoDB client.
func Build(cfg config.Config, logger *slog.Logger, ddb store.DynamoDBAPI) *App {
	if logger == nil {
		logger = slog.Default()
	}
	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		rec = metrics.NewRecorder()
	}

	playersTable := store.Table{DB: ddb, Name: cfg.PlayersTable, Logger: logger}
	analysisTable := store.Table{DB: ddb, Name: cfg.AnalysisTable, Logger: logger}

	var remote directory.RemoteSource
	if cfg.PlayersTable != "" {
		remote = playersTable
	}
	dir := directory.New(remote, cfg.SnapshotPath,
		directory.WithLogger(logger.With("component", "directory")),
		directory.WithMetrics(rec))

	client := func(name, baseURL string, perSec float64) *upstream.Client {
		return upstream.New(upstream.Config{
			Name:          name,
			BaseURL:       baseURL,
			UserAgent:     cfg.UpstreamUserAgent,
			Timeout:       cfg.UpstreamTimeout,
			MaxRetries:    cfg.UpstreamRetries,
			RatePerSecond: perSec,
			Burst:         int(perSec),
			Logger:        logger,
			Metrics:       rec,
		})
	}

	svc := roster.New(roster.Deps{
		Directory:   dir,
		Sleeper:     sleeper.New(client("sleeper", cfg.SleeperBaseURL, cfg.SleeperRatePerSec), logger),
		Fleaflicker: fleaflicker.New(client("fleaflicker", cfg.FleaflickerBaseURL, 0)),
		Values:      fantasycalc.New(client("fantasycalc", cfg.FantasyCalcBaseURL, 0), logger),
		Analysis:    analysis.New(analysisTable, cfg.AnalysisConcurrency),
		Players:     playersTable,
		Metrics:     rec,
		Logger:      logger,
	})

	return &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   rec,
		Directory: dir,
		Service:   svc,
		Handler:   httpapi.NewRouter(svc, logger, rec),
	}
}

// Warm loads the directory ahead of the first request. Failure is logged,
// not fatal; requests retry the load.
func (a *App) Warm(ctx context.Context) {
	ix, err := a.Directory.GetAll(ctx)
	if err != nil {
		a.Logger.Warn("directory warm-up failed", "error", err)
		return
	}
	a.Logger.Info("directory loaded", "source", ix.Source(), "players", ix.Len())
}
