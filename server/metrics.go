package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flow counters, incremented by the bot handlers and scraped via /metrics.
var (
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "muzbot_searches_total",
		Help: "Catalog search pages served.",
	})

	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muzbot_downloads_total",
		Help: "Track materializations by outcome.",
	}, []string{"outcome"}) // sent, fallback_link, failed

	RecognitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muzbot_recognitions_total",
		Help: "Voice recognitions by outcome.",
	}, []string{"outcome"}) // matched, no_match, failed

	CallbackErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "muzbot_callback_errors_total",
		Help: "Callback payloads rejected as malformed.",
	})
)
