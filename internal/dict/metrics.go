package dict

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opExists = "exists"
	opStart  = "start"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kkeutmal_dictionary_lookups_total",
			Help: "Dictionary API lookups by operation and result.",
		},
		[]string{"op", "result"},
	)

	lookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kkeutmal_dictionary_lookup_seconds",
			Help:    "Latency of dictionary API lookups.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	cacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kkeutmal_dictionary_cache_total",
			Help: "Dictionary cache lookups by operation and outcome (hit, miss, error).",
		},
		[]string{"op", "outcome"},
	)
)
