package service

import "errors"

var (
	// ErrRoundNotResolved rejects round creation while any fixture of the
	// current round still lacks a result.
	ErrRoundNotResolved = errors.New("current round has unresolved fixtures")

	// ErrRoundAlreadyRandomized rejects a second randomization of the same
	// round.
	ErrRoundAlreadyRandomized = errors.New("current round is already randomized")

	// ErrInsufficientFunds rejects a stake the bankroll cannot cover.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSimulationNotFound is returned when a client key has no simulation.
	ErrSimulationNotFound = errors.New("simulation not found")
)
