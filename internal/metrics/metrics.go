// Package metrics объявляет счётчики Prometheus портала.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы операций с комментариями и заметками.
const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeDeleted  = "deleted"
	OutcomeRejected = "rejected"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "HTTP requests by method, route template and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	Comments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_comments_total",
		Help: "Comment operations by outcome.",
	}, []string{"outcome"})

	Notes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_notes_total",
		Help: "Note operations by outcome.",
	}, []string{"outcome"})

	NewsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_news_imported_total",
		Help: "News items imported from RSS feeds.",
	})
)
