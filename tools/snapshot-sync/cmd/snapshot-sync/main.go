package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	appsnapshot "github.com/tyler180/fantasy-roster-values/tools/snapshot-sync/internal/app/snapshot"
)

func main() {
	log.SetFlags(0)
	lambda.Start(appsnapshot.LambdaEntrypoint)
}
