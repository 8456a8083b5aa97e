package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/services"
)

// TournamentRunner is the part of services.TournamentService the handlers use.
type TournamentRunner interface {
	Run(ctx context.Context, input services.RunTournamentInput) (*models.TournamentResult, error)
	GetStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	GetReport(ctx context.Context, tournamentID int) (*models.TournamentReport, error)
	Purge(ctx context.Context, tournamentID int) error
}

type TournamentHandler struct {
	tournamentService TournamentRunner
	responder
}

func NewTournamentHandler(tournamentService TournamentRunner, logger *slog.Logger) *TournamentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentHandler{
		tournamentService: tournamentService,
		responder:         responder{logger: logger},
	}
}

// RunTournament godoc
// @Summary Register entrants and play a whole Swiss tournament
// @Router /tournaments [post]
func (h *TournamentHandler) RunTournament(w http.ResponseWriter, r *http.Request) {
	var input services.RunTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	result, err := h.tournamentService.Run(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	standings, err := h.tournamentService.GetStandings(r.Context(), tournamentID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.ListMatches(r.Context(), tournamentID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	report, err := h.tournamentService.GetReport(r.Context(), tournamentID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) PurgeTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.Purge(r.Context(), tournamentID); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
