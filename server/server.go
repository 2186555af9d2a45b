package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"rombet/events"
	"rombet/service"
)

// Server is the REST front-end over the simulation, game and bet services.
type Server struct {
	router            *gin.Engine
	httpServer        *http.Server
	clientLocks       keyedMutex
	simulationService service.SimulationService
	gameService       service.GameService
	betService        service.BetService
}

// New wires the routes and metrics. Set environment to "production" to get
// gin's release mode.
func New(listenAddr, environment string, simulationService service.SimulationService, gameService service.GameService, betService service.BetService, bus *events.Bus) *Server {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		simulationService: simulationService,
		gameService:       gameService,
		betService:        betService,
	}

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry, bus)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), metrics.instrument())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.Use(s.serializePerClient())

	api.POST("/start", s.handleStart)
	api.POST("/restart", s.handleRestart)
	api.POST("/create_round", s.handleCreateRound)
	api.POST("/randomize_round", s.handleRandomizeRound)
	api.POST("/calculate_coefficients", s.handleCalculateCoefficients)
	api.POST("/make_bet", s.handleMakeBet)
	api.GET("/make_report", s.handleMakeReport)
	api.GET("/balance", s.handleBalance)

	s.router = router
	s.httpServer = &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	return s
}

// serializePerClient runs each client's requests one at a time. The round
// guards are read-then-write checks, so concurrent requests from the same
// client could otherwise slip past them.
func (s *Server) serializePerClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		s.clientLocks.Lock(key)
		defer s.clientLocks.Unlock(key)
		c.Next()
	}
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
