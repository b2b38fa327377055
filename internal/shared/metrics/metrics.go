package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	parseStartedTotal   atomic.Uint64
	parseCompletedTotal atomic.Uint64
	parseFailedTotal    atomic.Uint64
	decodeFailedTotal   atomic.Uint64

	jobsReceivedTotal      atomic.Uint64
	jobsCompletedTotal     atomic.Uint64
	jobsFailedTotal        atomic.Uint64
	jobsUnrecoverableTotal atomic.Uint64

	parseDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
)

// IncParseStarted increments the started counter.
func IncParseStarted() {
	parseStartedTotal.Add(1)
}

// IncParseCompleted increments the completed counter.
func IncParseCompleted() {
	parseCompletedTotal.Add(1)
}

// IncParseFailed increments the failed counter.
func IncParseFailed() {
	parseFailedTotal.Add(1)
}

// IncDecodeFailed counts inputs rejected as unreadable PDFs.
func IncDecodeFailed() {
	decodeFailedTotal.Add(1)
}

// IncJobsReceived counts queue messages picked up by a worker.
func IncJobsReceived() {
	jobsReceivedTotal.Add(1)
}

// IncJobsCompleted counts queue messages processed and deleted.
func IncJobsCompleted() {
	jobsCompletedTotal.Add(1)
}

// IncJobsFailed counts queue messages left for redelivery.
func IncJobsFailed() {
	jobsFailedTotal.Add(1)
}

// IncJobsDeletedUnrecoverable counts malformed messages dropped from the queue.
func IncJobsDeletedUnrecoverable() {
	jobsUnrecoverableTotal.Add(1)
}

// ObserveParseDurationMs records a parse duration in milliseconds.
func ObserveParseDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	parseDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_parse_started_total", "Total parses started", parseStartedTotal.Load())
	writeCounter(&buf, "resume_parse_completed_total", "Total parses completed", parseCompletedTotal.Load())
	writeCounter(&buf, "resume_parse_failed_total", "Total parses failed", parseFailedTotal.Load())
	writeCounter(&buf, "resume_decode_failed_total", "Total documents rejected as unreadable PDFs", decodeFailedTotal.Load())
	writeCounter(&buf, "resume_parse_jobs_received_total", "Total parse queue messages received", jobsReceivedTotal.Load())
	writeCounter(&buf, "resume_parse_jobs_completed_total", "Total parse queue messages completed", jobsCompletedTotal.Load())
	writeCounter(&buf, "resume_parse_jobs_failed_total", "Total parse queue messages left for retry", jobsFailedTotal.Load())
	writeCounter(&buf, "resume_parse_jobs_unrecoverable_total", "Total malformed parse queue messages deleted", jobsUnrecoverableTotal.Load())
	writeHistogram(&buf, "resume_parse_duration_ms", "Parse duration in milliseconds", parseDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed milliseconds since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
