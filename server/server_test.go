package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rombet/events"
	"rombet/models"
	"rombet/service"
)

type mockSimulationService struct {
	mock.Mock
}

func (m *mockSimulationService) Start(ctx context.Context, clientKey string) (*models.Simulation, error) {
	args := m.Called(ctx, clientKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Simulation), args.Error(1)
}

func (m *mockSimulationService) Restart(ctx context.Context, clientKey string) (*models.Simulation, error) {
	args := m.Called(ctx, clientKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Simulation), args.Error(1)
}

func (m *mockSimulationService) Get(ctx context.Context, clientKey string) (*models.Simulation, error) {
	args := m.Called(ctx, clientKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Simulation), args.Error(1)
}

func (m *mockSimulationService) CreateRound(ctx context.Context, simulation *models.Simulation) ([]*service.FixtureView, error) {
	args := m.Called(ctx, simulation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.FixtureView), args.Error(1)
}

type mockGameService struct {
	mock.Mock
}

func (m *mockGameService) RandomizeRound(ctx context.Context, simulation *models.Simulation) ([]*service.FixtureView, error) {
	args := m.Called(ctx, simulation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.FixtureView), args.Error(1)
}

func (m *mockGameService) RandomizeGame(ctx context.Context, game *models.Game) (*models.GameStat, error) {
	args := m.Called(ctx, game)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameStat), args.Error(1)
}

type mockBetService struct {
	mock.Mock
}

func (m *mockBetService) CalculateCoefficients(ctx context.Context, game *models.Game) ([]service.MarketQuote, error) {
	args := m.Called(ctx, game)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.MarketQuote), args.Error(1)
}

func (m *mockBetService) MakeBet(ctx context.Context, simulationID models.ID[models.Simulation], gameID models.ID[models.Game], amount models.Amount, event models.Event, coefficient models.Coefficient) (*models.Bet, error) {
	args := m.Called(ctx, simulationID, gameID, amount, event, coefficient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *mockBetService) SettleBets(ctx context.Context, simulationID models.ID[models.Simulation]) (models.Amount, error) {
	args := m.Called(ctx, simulationID)
	return args.Get(0).(models.Amount), args.Error(1)
}

func (m *mockBetService) MakeReport(ctx context.Context, simulationID models.ID[models.Simulation]) (*models.BetStatistics, error) {
	args := m.Called(ctx, simulationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetStatistics), args.Error(1)
}

type serverEnv struct {
	server     *Server
	simulation *mockSimulationService
	games      *mockGameService
	bets       *mockBetService
}

func newServerEnv() *serverEnv {
	gin.SetMode(gin.TestMode)
	env := &serverEnv{
		simulation: &mockSimulationService{},
		games:      &mockGameService{},
		bets:       &mockBetService{},
	}
	env.server = New(":0", "test", env.simulation, env.games, env.bets, events.NewBus())
	return env
}

func (e *serverEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.9:51234"
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestServer_Start(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(10000))
	env.simulation.On("Start", mock.Anything, "203.0.113.9").Return(simulation, nil)

	recorder := env.do(t, http.MethodPost, "/api/start", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, 100.0, body["balance"])
}

func TestServer_BalanceBeforeStart(t *testing.T) {
	env := newServerEnv()
	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(nil, service.ErrSimulationNotFound)

	recorder := env.do(t, http.MethodGet, "/api/balance", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestServer_CreateRoundConflict(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(10000))
	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(simulation, nil)
	env.simulation.On("CreateRound", mock.Anything, simulation).Return(nil, service.ErrRoundNotResolved)

	recorder := env.do(t, http.MethodPost, "/api/create_round", nil)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Contains(t, body["error"], "unresolved")
}

func TestServer_RandomizeRoundSettles(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(10000))
	simulation.Round = 2
	game := &models.Game{
		ID:           models.NewID[models.Game](),
		SimulationID: simulation.ID,
		HomeTeamID:   models.NewID[models.Team](),
		GuestTeamID:  models.NewID[models.Team](),
		Round:        2,
	}
	stat := &models.GameStat{ID: models.NewID[models.GameStat](), GameID: game.ID, HomeTeamTotal: 2, GuestTeamTotal: 0}
	views := []*service.FixtureView{{
		Game:      game,
		HomeTeam:  &models.Team{ID: game.HomeTeamID, Name: "CSKA"},
		GuestTeam: &models.Team{ID: game.GuestTeamID, Name: "Zenit"},
		Stat:      stat,
	}}

	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(simulation, nil)
	env.games.On("RandomizeRound", mock.Anything, simulation).Return(views, nil)
	env.bets.On("SettleBets", mock.Anything, simulation.ID).Return(models.Amount(2500), nil)

	recorder := env.do(t, http.MethodPost, "/api/randomize_round", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, 25.0, body["profit"])
	assert.Equal(t, 2.0, body["round"])

	games := body["games_stat"].([]any)
	require.Len(t, games, 1)
	first := games[0].(map[string]any)
	assert.Equal(t, 2.0, first["home_team_total"])
	assert.Equal(t, 0.0, first["guest_team_total"])
}

func TestServer_RandomizeRoundAlreadyRandomized(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(10000))
	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(simulation, nil)
	env.games.On("RandomizeRound", mock.Anything, simulation).Return(nil, service.ErrRoundAlreadyRandomized)

	recorder := env.do(t, http.MethodPost, "/api/randomize_round", nil)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	env.bets.AssertNotCalled(t, "SettleBets", mock.Anything, mock.Anything)
}

func TestServer_MakeBet(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(10000))
	gameID := models.NewID[models.Game]()
	bet := &models.Bet{ID: models.NewID[models.Bet]()}

	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(simulation, nil)
	env.bets.On("MakeBet",
		mock.Anything,
		simulation.ID,
		gameID,
		models.Amount(1050),
		models.WinnerEvent(models.WinnerHome),
		models.Coefficient(250),
	).Return(bet, nil)

	recorder := env.do(t, http.MethodPost, "/api/make_bet", map[string]any{
		"game_id":     gameID,
		"event":       models.WinnerEvent(models.WinnerHome),
		"coefficient": 2.5,
		"value":       10.5,
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, bet.ID.String(), body["bet_id"])
}

func TestServer_MakeBetRejectsBadCoefficient(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(10000))
	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(simulation, nil)

	recorder := env.do(t, http.MethodPost, "/api/make_bet", map[string]any{
		"game_id":     models.NewID[models.Game](),
		"event":       models.WinnerEvent(models.WinnerHome),
		"coefficient": 1.0,
		"value":       10.0,
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	env.bets.AssertNotCalled(t, "MakeBet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServer_MakeBetInsufficientFunds(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(100))
	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(simulation, nil)
	env.bets.On("MakeBet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.ErrInsufficientFunds)

	recorder := env.do(t, http.MethodPost, "/api/make_bet", map[string]any{
		"game_id":     models.NewID[models.Game](),
		"event":       models.WinnerEvent(models.WinnerHome),
		"coefficient": 2.5,
		"value":       50.0,
	})

	assert.Equal(t, http.StatusPaymentRequired, recorder.Code)
}

func TestServer_CalculateCoefficients(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(10000))
	simulation.Round = 1
	gameID := models.NewID[models.Game]()
	quotes := []service.MarketQuote{
		{Event: models.WinnerEvent(models.WinnerHome), Coefficient: models.Coefficient(264)},
		{Event: models.WinnerEvent(models.WinnerDraw), Coefficient: models.Coefficient(264)},
		{Event: models.WinnerEvent(models.WinnerGuest), Coefficient: models.Coefficient(264)},
	}

	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(simulation, nil)
	env.bets.On("CalculateCoefficients", mock.Anything, mock.MatchedBy(func(game *models.Game) bool {
		return game.ID == gameID && game.SimulationID == simulation.ID && game.Round == 1
	})).Return(quotes, nil)

	recorder := env.do(t, http.MethodPost, "/api/calculate_coefficients", map[string]any{
		"game_id":       gameID,
		"home_team_id":  models.NewID[models.Team](),
		"guest_team_id": models.NewID[models.Team](),
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	coefficients := body["coefficients"].([]any)
	require.Len(t, coefficients, 3)
	assert.Equal(t, 2.64, coefficients[0])
}

func TestServer_MakeReport(t *testing.T) {
	env := newServerEnv()
	simulation := models.NewSimulation("203.0.113.9", models.Amount(10000))
	minLosing := models.Coefficient(145)
	env.simulation.On("Get", mock.Anything, "203.0.113.9").Return(simulation, nil)
	env.bets.On("MakeReport", mock.Anything, simulation.ID).Return(&models.BetStatistics{
		StartBalance:         models.Amount(10000),
		MinLosingCoefficient: &minLosing,
	}, nil)

	recorder := env.do(t, http.MethodGet, "/api/make_report", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	env := newServerEnv()

	health := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)

	metrics := env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, metrics.Code)
}
