package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP server configuration
	ListenAddr string

	// Odds configuration
	TrackedGames uint8   // Size of the form window per team
	Margin       float64 // Bookmaker overround, [0, 1)
	Alpha        int32   // Divisor damping the head-to-head shift
	Totals       []uint8 // Thresholds quoted on the totals market
	DeviationMin float64 // Randomizer noise factor bounds
	DeviationMax float64

	// Simulation configuration
	StartingBalance int64 // Bankroll in pennies
	MinStake        int64 // Smallest accepted stake in pennies

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ListenAddr:  os.Getenv("LISTEN_ADDR"),

		// Odds defaults tuned for a 16-team league
		TrackedGames: 25,
		Margin:       0.1,
		Alpha:        60,
		Totals:       []uint8{2, 3},
		DeviationMin: 0.8,
		DeviationMax: 1.2,

		StartingBalance: 10000, // 100.00
		MinStake:        100,   // 1.00

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	// Override defaults if environment variables are set
	if tracked := os.Getenv("TRACKED_GAMES"); tracked != "" {
		parsed, err := strconv.ParseUint(tracked, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid TRACKED_GAMES %q: %w", tracked, err)
		}
		config.TrackedGames = uint8(parsed)
	}
	if margin := os.Getenv("MARGIN"); margin != "" {
		parsed, err := strconv.ParseFloat(margin, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MARGIN %q: %w", margin, err)
		}
		config.Margin = parsed
	}
	if alpha := os.Getenv("ALPHA"); alpha != "" {
		parsed, err := strconv.ParseInt(alpha, 10, 32)
		if err != nil || parsed == 0 {
			return nil, fmt.Errorf("invalid ALPHA %q", alpha)
		}
		config.Alpha = int32(parsed)
	}
	if totals := os.Getenv("TOTALS"); totals != "" {
		parsed, err := parseTotals(totals)
		if err != nil {
			return nil, err
		}
		config.Totals = parsed
	}
	if min := os.Getenv("DEVIATION_MIN"); min != "" {
		parsed, err := strconv.ParseFloat(min, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DEVIATION_MIN %q: %w", min, err)
		}
		config.DeviationMin = parsed
	}
	if max := os.Getenv("DEVIATION_MAX"); max != "" {
		parsed, err := strconv.ParseFloat(max, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DEVIATION_MAX %q: %w", max, err)
		}
		config.DeviationMax = parsed
	}
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		parsed, err := strconv.ParseInt(balance, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid STARTING_BALANCE %q", balance)
		}
		config.StartingBalance = parsed
	}
	if stake := os.Getenv("MIN_STAKE"); stake != "" {
		parsed, err := strconv.ParseInt(stake, 10, 64)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("invalid MIN_STAKE %q", stake)
		}
		config.MinStake = parsed
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.DeviationMin > config.DeviationMax {
		return nil, fmt.Errorf("DEVIATION_MIN %v exceeds DEVIATION_MAX %v", config.DeviationMin, config.DeviationMax)
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// parseTotals parses a comma-separated threshold list, e.g. "2,3".
func parseTotals(value string) ([]uint8, error) {
	var totals []uint8
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid TOTALS entry %q: %w", part, err)
		}
		totals = append(totals, uint8(parsed))
	}
	if len(totals) == 0 {
		return nil, fmt.Errorf("TOTALS %q contains no thresholds", value)
	}
	return totals, nil
}
