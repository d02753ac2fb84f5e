// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeForwarded = "forwarded"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
	OutcomeDead      = "dead_letter"
)

var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payfox_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payfox_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "route"})

	remoteCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payfox_remote_calls_total",
		Help: "Calls to the payments platform by operation and outcome",
	}, []string{"operation", "outcome"})

	remoteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payfox_remote_call_duration_seconds",
		Help:    "Payments platform call latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"operation"})

	webhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payfox_webhook_events_total",
		Help: "Webhook events by stream, event type and outcome",
	}, []string{"stream", "type", "outcome"})

	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "payfox_job_queue_depth",
		Help: "Jobs per queue list (pending, processing, retrying, dead_letter)",
	}, []string{"list"})
)

// Middleware records request count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		httpReqTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpLatency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveRemote records one payments platform call.
func ObserveRemote(operation string, start time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	remoteCallsTotal.WithLabelValues(operation, outcome).Inc()
	remoteLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// WebhookEvent counts a processed webhook event.
func WebhookEvent(stream, eventType, outcome string) {
	if eventType == "" {
		eventType = "unknown"
	}
	webhookEventsTotal.WithLabelValues(stream, eventType, outcome).Inc()
}

// QueueDepth sets the current length of a job queue list.
func QueueDepth(list string, n int64) {
	queueDepth.WithLabelValues(list).Set(float64(n))
}
