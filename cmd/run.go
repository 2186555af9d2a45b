package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"rombet/config"
	"rombet/database"
	"rombet/events"
	"rombet/models"
	"rombet/repository"
	"rombet/server"
	"rombet/service"
)

// Run initializes the application and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg.Environment)

	log.Info("Starting rombet server...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	margin, err := models.NewMargin(cfg.Margin)
	if err != nil {
		return fmt.Errorf("invalid margin: %w", err)
	}
	oddsConfig := service.OddsConfig{
		TrackedGames: cfg.TrackedGames,
		Margin:       margin,
		Alpha:        cfg.Alpha,
		Totals:       cfg.Totals,
		DeviationMin: cfg.DeviationMin,
		DeviationMax: cfg.DeviationMax,
	}
	startingBalance, err := models.NewAmount(cfg.StartingBalance, &models.MinBalanceAmount)
	if err != nil {
		return fmt.Errorf("invalid starting balance: %w", err)
	}
	minStake, err := models.NewAmount(cfg.MinStake, &models.MinBalanceAmount)
	if err != nil {
		return fmt.Errorf("invalid minimum stake: %w", err)
	}

	rand := service.ProcessRand()
	simulationService := service.NewSimulationService(uowFactory, rand, startingBalance)
	gameService := service.NewGameService(uowFactory, rand, oddsConfig)
	betService := service.NewBetService(uowFactory, oddsConfig, startingBalance, minStake)

	srv := server.New(cfg.ListenAddr, cfg.Environment, simulationService, gameService, betService, eventBus)

	log.WithFields(log.Fields{
		"addr":        cfg.ListenAddr,
		"environment": cfg.Environment,
	}).Info("Server is running")

	return srv.Start(ctx)
}

func configureLogging(environment string) {
	switch environment {
	case "production":
		log.SetFormatter(&log.JSONFormatter{})
		log.SetLevel(log.InfoLevel)
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		log.SetLevel(log.DebugLevel)
	}
}
