package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kkeutmal_sessions_started_total",
		Help: "Total number of game sessions created.",
	})

	movesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kkeutmal_moves_total",
			Help: "Submitted moves by outcome (accepted or rejection reason).",
		},
		[]string{"outcome"},
	)

	gamesFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kkeutmal_games_finished_total",
			Help: "Finished games by winner.",
		},
		[]string{"winner"},
	)

	hintsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kkeutmal_hints_served_total",
		Help: "Total number of hint lists returned.",
	})
)
