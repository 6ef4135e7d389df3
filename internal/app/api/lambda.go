package api

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

// LambdaHandler serves API Gateway HTTP API (v2) events through the gin
// engine. The gateway request id becomes X-Request-ID unless the caller sent one.
func LambdaHandler(engine *gin.Engine) func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	adapter := ginadapter.NewV2(engine)
	return func(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		ev.Headers = withRequestID(ev.Headers, ev.RequestContext.RequestID)
		return adapter.ProxyWithContext(ctx, ev)
	}
}

func withRequestID(headers map[string]string, id string) map[string]string {
	if id == "" {
		return headers
	}
	for k, v := range headers {
		if strings.EqualFold(k, "x-request-id") && v != "" {
			return headers
		}
	}
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["x-request-id"] = id
	return out
}
