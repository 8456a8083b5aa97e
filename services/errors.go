package services

import (
	"errors"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrEntrantNameEmpty   = errors.New("entrant name must not be empty")
	ErrTournamentNotFound = models.ErrTournamentNotFound
)
