package models

import "errors"

var (
	// ErrConstraintViolation is returned when a write would break a tournament rule,
	// such as a second bye for the same player.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidTournamentState is returned when no valid pairing can be produced.
	ErrInvalidTournamentState = errors.New("invalid tournament state")

	// ErrDataIntegrity is returned when the ledger has no row for a player that must exist.
	ErrDataIntegrity = errors.New("data integrity error")

	ErrTournamentNotFound = errors.New("tournament not found")
)
