package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"resume-parser/internal/bootstrap"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/metrics"
	"resume-parser/internal/shared/telemetry"
	"resume-parser/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	telemetry.Setup(cfg.LogLevel, cfg.LogFormat)
	cfg.ParseMode = config.ParseModeQueue
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr.Error()})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		metrics.IncJobsReceived()
		err := workerproc.HandleMessage(ctx, app, record.Body)
		switch {
		case err == nil:
			metrics.IncJobsCompleted()
		case workerproc.Unrecoverable(err):
			// Reporting success drops the message; it can never be processed.
			telemetry.Error("lambda.parse.unrecoverable", map[string]any{"sqs_message_id": record.MessageId, "error": err.Error()})
			metrics.IncJobsDeletedUnrecoverable()
		default:
			telemetry.Error("lambda.parse.failed", map[string]any{"sqs_message_id": record.MessageId, "error": err.Error()})
			metrics.IncJobsFailed()
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}
