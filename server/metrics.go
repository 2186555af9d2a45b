package server

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rombet/events"
)

// Metrics exposes the platform's counters. Domain counters are fed from the
// event bus, so they only move on committed transactions.
type Metrics struct {
	requestDuration    *prometheus.HistogramVec
	simulationsStarted prometheus.Counter
	roundsCreated      prometheus.Counter
	roundsRandomized   prometheus.Counter
	betsPlaced         prometheus.Counter
	betsSettled        prometheus.Counter
}

// NewMetrics registers the collectors and subscribes them to the bus.
func NewMetrics(registry *prometheus.Registry, bus *events.Bus) *Metrics {
	factory := promauto.With(registry)
	m := &Metrics{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rombet_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		simulationsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rombet_simulations_started_total",
			Help: "Simulations created.",
		}),
		roundsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "rombet_rounds_created_total",
			Help: "Rounds of fixtures created.",
		}),
		roundsRandomized: factory.NewCounter(prometheus.CounterOpts{
			Name: "rombet_rounds_randomized_total",
			Help: "Rounds resolved by the randomizer.",
		}),
		betsPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "rombet_bets_placed_total",
			Help: "Bets accepted.",
		}),
		betsSettled: factory.NewCounter(prometheus.CounterOpts{
			Name: "rombet_bets_settled_total",
			Help: "Bets reconciled against results.",
		}),
	}

	bus.Subscribe(events.EventTypeSimulationStarted, func(ctx context.Context, event events.Event) {
		m.simulationsStarted.Inc()
	})
	bus.Subscribe(events.EventTypeRoundCreated, func(ctx context.Context, event events.Event) {
		m.roundsCreated.Inc()
	})
	bus.Subscribe(events.EventTypeRoundRandomized, func(ctx context.Context, event events.Event) {
		m.roundsRandomized.Inc()
	})
	bus.Subscribe(events.EventTypeBetPlaced, func(ctx context.Context, event events.Event) {
		m.betsPlaced.Inc()
	})
	bus.Subscribe(events.EventTypeBetsSettled, func(ctx context.Context, event events.Event) {
		if settled, ok := event.(events.BetsSettledEvent); ok {
			m.betsSettled.Add(float64(settled.Settled))
		}
	})

	return m
}

// instrument times every request against the matched route.
func (m *Metrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
