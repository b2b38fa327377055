package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"resume-parser/internal/bootstrap"
	"resume-parser/internal/parses"
	"resume-parser/internal/queue"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/metrics"
	"resume-parser/internal/shared/storage/db"
	"resume-parser/internal/shared/telemetry"
	"resume-parser/internal/workerproc"
)

const (
	defaultVisibilitySeconds  = 300
	defaultShutdownTimeoutSec = 30
	receiveBatch              = 10
	receiveWaitSeconds        = 20
)

func main() {
	cfg := config.Load()
	telemetry.Setup(cfg.LogLevel, cfg.LogFormat)
	log := telemetry.Logger()

	if strings.TrimSpace(cfg.ParseQueueURL) == "" {
		log.Fatal().Msg("PARSE_QUEUE_URL is required")
	}
	cfg.ParseMode = config.ParseModeQueue
	cfg.Process = string(db.RuntimeWorker)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap build")
	}
	if app.Receiver == nil {
		log.Fatal().Msg("parse queue receiver not configured")
	}
	visibilitySeconds := envInt("WORKER_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	if sqsClient, ok := app.Receiver.(*queue.SQSClient); ok {
		sqsClient.VisibilityTimeout = int32(visibilitySeconds)
	}
	shutdownTimeout := time.Duration(envInt("WORKER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	telemetry.Info("worker.started", map[string]any{
		"queue":       cfg.ParseQueueURL,
		"concurrency": cfg.WorkerConcurrent,
		"visibility":  visibilitySeconds,
	})
	run(ctx, app.Receiver, app.ParseProcessor, cfg.WorkerConcurrent, shutdownTimeout)
}

// run long-polls the queue until ctx is done, processing at most concurrency
// messages at a time, then waits up to shutdownTimeout for in-flight jobs.
func run(ctx context.Context, recv queue.Receiver, processor parses.Processor, concurrency int, shutdownTimeout time.Duration) {
	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		deliveries, err := recv.Receive(ctx, receiveBatch, receiveWaitSeconds)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			continue
		}

		for _, d := range deliveries {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncJobsReceived()
			wg.Add(1)
			go func(d queue.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				// In-flight jobs finish even after a shutdown signal.
				handleDelivery(context.WithoutCancel(ctx), recv, processor, d)
			}(d)
		}
	}

	telemetry.Info("worker.shutdown", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
	}
}

func handleDelivery(ctx context.Context, recv queue.Receiver, processor parses.Processor, d queue.Delivery) {
	decoded, meta, err := workerproc.ParseMessage(d.Body)
	if err != nil {
		fields := baseFields(d, "", "")
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		var missing workerproc.ErrMissingParseID
		var decodeErr workerproc.ErrDecode
		switch {
		case errors.As(err, &missing):
			fields["request_id"] = missing.RequestID
			telemetry.Error("worker.parse.missing_id", fields)
		case errors.As(err, &decodeErr):
			fields["error"] = decodeErr.Error()
			telemetry.Error("worker.parse.decode_failed", fields)
		default:
			telemetry.Error("worker.parse.empty_body", fields)
		}
		if deleteDelivery(ctx, recv, d, "", "") {
			metrics.IncJobsDeletedUnrecoverable()
		}
		return
	}

	telemetry.Info("worker.parse.received", baseFields(d, decoded.ParseID, decoded.RequestID))

	ctxWithParsed := workerproc.WithParsedMessage(ctx, decoded)
	if err := workerproc.Process(ctxWithParsed, processor, d.Body); err != nil {
		fields := baseFields(d, decoded.ParseID, decoded.RequestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.parse.failed", fields)
		metrics.IncJobsFailed()
		return
	}

	if deleteDelivery(ctx, recv, d, decoded.ParseID, decoded.RequestID) {
		telemetry.Info("worker.parse.completed", baseFields(d, decoded.ParseID, decoded.RequestID))
		metrics.IncJobsCompleted()
	}
}

func deleteDelivery(ctx context.Context, recv queue.Receiver, d queue.Delivery, parseID, requestID string) bool {
	if d.ReceiptHandle == "" {
		fields := baseFields(d, parseID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.parse.delete_failed", fields)
		return false
	}
	if err := recv.Delete(ctx, d.ReceiptHandle); err != nil {
		fields := baseFields(d, parseID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.parse.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(d queue.Delivery, parseID, requestID string) map[string]any {
	fields := map[string]any{
		"parse_id":       parseID,
		"sqs_message_id": d.MessageID,
		"receive_count":  d.ReceiveCount,
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}
