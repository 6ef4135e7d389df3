package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"

	"github.com/tyler180/fantasy-roster-values/internal/app/api"
	"github.com/tyler180/fantasy-roster-values/internal/config"
	"github.com/tyler180/fantasy-roster-values/internal/logging"
)

func main() {
	log.SetFlags(0)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  "json",
		Service: "roster-values-api",
	})
	gin.SetMode(gin.ReleaseMode)

	// The directory is loaded lazily on the first request and then reused
	// for as long as the execution environment stays warm.
	app, err := api.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	lambda.Start(api.LambdaHandler(app.Handler))
}
