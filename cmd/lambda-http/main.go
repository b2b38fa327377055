package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"resume-parser/internal/bootstrap"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/telemetry"
)

// loadAdapter builds the app once per execution environment.
var loadAdapter = sync.OnceValues(func() (*ginadapter.GinLambdaV2, error) {
	cfg := config.Load()
	telemetry.Setup(cfg.LogLevel, cfg.LogFormat)
	app, err := bootstrap.Build(cfg)
	if err != nil {
		return nil, err
	}
	return ginadapter.NewV2(app.Router), nil
})

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	ginLambda, err := loadAdapter()
	if err != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": err.Error()})
		return errorResponse(http.StatusInternalServerError, "bootstrap_failed", "service failed to start"), err
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func errorResponse(status int, code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]any{"error": map[string]string{"code": code, "message": message}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(handler)
}
