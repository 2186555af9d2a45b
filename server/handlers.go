package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"rombet/models"
	"rombet/service"
)

// displayedGame is a fixture as the front-end shows it; the stat fields are
// present only once the fixture has been resolved.
type displayedGame struct {
	GameID         models.ID[models.Game] `json:"game_id"`
	HomeTeam       *models.Team           `json:"home_team"`
	GuestTeam      *models.Team           `json:"guest_team"`
	HomeTeamTotal  *uint8                 `json:"home_team_total,omitempty"`
	GuestTeamTotal *uint8                 `json:"guest_team_total,omitempty"`
}

func displayFixture(view *service.FixtureView) displayedGame {
	game := displayedGame{
		GameID:    view.Game.ID,
		HomeTeam:  view.HomeTeam,
		GuestTeam: view.GuestTeam,
	}
	if view.Stat != nil {
		game.HomeTeamTotal = &view.Stat.HomeTeamTotal
		game.GuestTeamTotal = &view.Stat.GuestTeamTotal
	}
	return game
}

func displayFixtures(views []*service.FixtureView) []displayedGame {
	games := make([]displayedGame, 0, len(views))
	for _, view := range views {
		games = append(games, displayFixture(view))
	}
	return games
}

func (s *Server) handleStart(c *gin.Context) {
	simulation, err := s.simulationService.Start(c.Request.Context(), c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": simulation.Balance.Float()})
}

func (s *Server) handleRestart(c *gin.Context) {
	simulation, err := s.simulationService.Restart(c.Request.Context(), c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": simulation.Balance.Float()})
}

func (s *Server) handleBalance(c *gin.Context) {
	simulation, err := s.simulationService.Get(c.Request.Context(), c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": simulation.Balance.Float()})
}

func (s *Server) handleCreateRound(c *gin.Context) {
	ctx := c.Request.Context()
	simulation, err := s.simulationService.Get(ctx, c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	fixtures, err := s.simulationService.CreateRound(ctx, simulation)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"round": simulation.Round,
		"games": displayFixtures(fixtures),
	})
}

// handleRandomizeRound resolves the current round and immediately settles
// every bet that the fresh results decide.
func (s *Server) handleRandomizeRound(c *gin.Context) {
	ctx := c.Request.Context()
	simulation, err := s.simulationService.Get(ctx, c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	fixtures, err := s.gameService.RandomizeRound(ctx, simulation)
	if err != nil {
		s.fail(c, err)
		return
	}

	profit, err := s.betService.SettleBets(ctx, simulation.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"round":      simulation.Round,
		"games_stat": displayFixtures(fixtures),
		"profit":     profit.Float(),
	})
}

type calculateCoefficientsRequest struct {
	GameID      models.ID[models.Game] `json:"game_id"`
	HomeTeamID  models.ID[models.Team] `json:"home_team_id"`
	GuestTeamID models.ID[models.Team] `json:"guest_team_id"`
}

func (s *Server) handleCalculateCoefficients(c *gin.Context) {
	var req calculateCoefficientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	simulation, err := s.simulationService.Get(ctx, c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	game := &models.Game{
		ID:           req.GameID,
		SimulationID: simulation.ID,
		HomeTeamID:   req.HomeTeamID,
		GuestTeamID:  req.GuestTeamID,
		Round:        simulation.Round,
	}
	quotes, err := s.betService.CalculateCoefficients(ctx, game)
	if err != nil {
		s.fail(c, err)
		return
	}

	// Parallel arrays, same order.
	eventList := make([]models.Event, 0, len(quotes))
	coefficients := make([]float64, 0, len(quotes))
	for _, quote := range quotes {
		eventList = append(eventList, quote.Event)
		coefficients = append(coefficients, quote.Coefficient.Float())
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       eventList,
		"coefficients": coefficients,
	})
}

type makeBetRequest struct {
	GameID      models.ID[models.Game] `json:"game_id"`
	Event       models.Event           `json:"event"`
	Coefficient float64                `json:"coefficient"`
	Value       float64                `json:"value"`
}

func (s *Server) handleMakeBet(c *gin.Context) {
	var req makeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	simulation, err := s.simulationService.Get(ctx, c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	amount, err := models.NewAmountFromFloat(req.Value, &models.MinBalanceAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coefficient, err := models.NewCoefficientFromFloat(req.Coefficient)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := s.betService.MakeBet(ctx, simulation.ID, req.GameID, amount, req.Event, coefficient)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bet_id": bet.ID})
}

func (s *Server) handleMakeReport(c *gin.Context) {
	ctx := c.Request.Context()
	simulation, err := s.simulationService.Get(ctx, c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	stat, err := s.betService.MakeReport(ctx, simulation.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stat": stat})
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSimulationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrRoundNotResolved),
		errors.Is(err, service.ErrRoundAlreadyRandomized):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	}

	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
