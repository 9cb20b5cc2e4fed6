package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	enrichStartedTotal    atomic.Uint64
	enrichClassifiedTotal atomic.Uint64
	enrichSkippedTotal    atomic.Uint64
	enrichFailedTotal     atomic.Uint64
	llmCallsTotal         atomic.Uint64
	llmCallErrorsTotal    atomic.Uint64

	enrichDuration  = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
	llmCallDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncEnrichStarted counts a pipeline run.
func IncEnrichStarted() {
	enrichStartedTotal.Add(1)
}

// IncEnrichClassified counts a run that produced a model classification.
func IncEnrichClassified() {
	enrichClassifiedTotal.Add(1)
}

// IncEnrichSkipped counts a run that stopped at the short-text guard.
func IncEnrichSkipped() {
	enrichSkippedTotal.Add(1)
}

// IncEnrichFailed counts a run that degraded to the failure result.
func IncEnrichFailed() {
	enrichFailedTotal.Add(1)
}

// ObserveEnrichDurationMs records a pipeline duration in milliseconds.
func ObserveEnrichDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	enrichDuration.Observe(value)
}

// ObserveLLMCall records one model call and whether it failed.
func ObserveLLMCall(durationMs float64, failed bool) {
	llmCallsTotal.Add(1)
	if failed {
		llmCallErrorsTotal.Add(1)
	}
	if durationMs < 0 {
		durationMs = 0
	}
	llmCallDuration.Observe(durationMs)
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
	writeCounter(&buf, "enrich_started_total", "Total enrichment runs started", enrichStartedTotal.Load())
	writeCounter(&buf, "enrich_classified_total", "Total enrichment runs classified by the model", enrichClassifiedTotal.Load())
	writeCounter(&buf, "enrich_skipped_total", "Total enrichment runs skipped for short text", enrichSkippedTotal.Load())
	writeCounter(&buf, "enrich_failed_total", "Total enrichment runs degraded after a failure", enrichFailedTotal.Load())
	writeCounter(&buf, "llm_calls_total", "Total model calls", llmCallsTotal.Load())
	writeCounter(&buf, "llm_call_errors_total", "Total failed model calls", llmCallErrorsTotal.Load())
	writeHistogram(&buf, "enrich_duration_ms", "Enrichment duration in milliseconds", enrichDuration.Snapshot())
	writeHistogram(&buf, "llm_call_duration_ms", "Model call duration in milliseconds", llmCallDuration.Snapshot())
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
	// counts are already cumulative: Observe increments every bucket whose bound fits.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
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
