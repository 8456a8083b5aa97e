package brackets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/models"
)

type Phase int

const (
	PhasePlanning Phase = iota
	PhaseResolving
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhasePlanning:
		return "planning"
	case PhaseResolving:
		return "resolving"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// RoundObserver is told about every resolved round and the final result.
type RoundObserver interface {
	RoundResolved(ctx context.Context, summary *models.RoundSummary)
	TournamentCompleted(ctx context.Context, result *models.TournamentResult)
}

// Resolver settles rounds through the outcome oracle and drives the
// plan -> resolve loop until the last round has been played.
type Resolver struct {
	planner   *Planner
	standings StandingsProvider
	ledger    RoundLedger
	oracle    OutcomeOracle
	observer  RoundObserver
	logger    *slog.Logger
}

func NewResolver(planner *Planner, standings StandingsProvider, ledger RoundLedger, oracle OutcomeOracle, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		planner:   planner,
		standings: standings,
		ledger:    ledger,
		oracle:    oracle,
		logger:    logger,
	}
}

// WithObserver attaches an observer and returns the resolver.
func (r *Resolver) WithObserver(observer RoundObserver) *Resolver {
	r.observer = observer
	return r
}

// Run plays a tournament from its current round up to totalRounds and returns the
// result with the declared winner. A tournament with no matches starts at round 1.
func (r *Resolver) Run(ctx context.Context, tournamentID, totalRounds int) (*models.TournamentResult, error) {
	if totalRounds < 1 {
		return nil, fmt.Errorf("%w: total rounds must be positive, got %d", models.ErrInvalidTournamentState, totalRounds)
	}

	round, err := r.ledger.CurrentRound(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read current round for tournament %d: %w", tournamentID, err)
	}
	if round > totalRounds {
		return nil, fmt.Errorf("%w: tournament %d already played %d of %d rounds", models.ErrInvalidTournamentState, tournamentID, round-1, totalRounds)
	}

	result := &models.TournamentResult{
		TournamentID: tournamentID,
		TotalRounds:  totalRounds,
		Rounds:       make([]*models.RoundSummary, 0, totalRounds),
	}

	phase := PhasePlanning
	var plan *RoundPlan

	for phase != PhaseComplete {
		r.logger.Debug("tournament state", slog.Int("tournament_id", tournamentID), slog.Int("round", round), slog.String("phase", phase.String()))

		switch phase {
		case PhasePlanning:
			if round == 1 {
				plan, err = r.planner.PlanFirstRound(ctx, tournamentID)
			} else {
				plan, err = r.planner.PlanNextRound(ctx, tournamentID, round)
			}
			if err != nil {
				return nil, err
			}
			phase = PhaseResolving

		case PhaseResolving:
			summary, err := r.ResolveRound(ctx, plan)
			if err != nil {
				return nil, err
			}
			result.Rounds = append(result.Rounds, summary)
			if r.observer != nil {
				r.observer.RoundResolved(ctx, summary)
			}

			if summary.Round < totalRounds {
				round = summary.Round + 1
				phase = PhasePlanning
				continue
			}

			winner, standings, err := r.declareWinner(ctx, tournamentID)
			if err != nil {
				return nil, err
			}
			result.Winner = winner
			result.Standings = standings
			phase = PhaseComplete
		}
	}

	r.logger.Info("tournament completed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("winner_id", result.Winner.PlayerID),
		slog.String("winner_name", result.Winner.Name))
	if r.observer != nil {
		r.observer.TournamentCompleted(ctx, result)
	}
	return result, nil
}

// ResolveRound records the bye (if any) and one match per pair of the plan.
func (r *Resolver) ResolveRound(ctx context.Context, plan *RoundPlan) (*models.RoundSummary, error) {
	if plan == nil {
		return nil, fmt.Errorf("%w: no round plan to resolve", models.ErrInvalidTournamentState)
	}
	if len(plan.Pairing)%2 != 0 {
		return nil, fmt.Errorf("%w: pairing has odd length %d", models.ErrInvalidTournamentState, len(plan.Pairing))
	}

	tournamentID := plan.TournamentID
	round, err := r.ledger.CurrentRound(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read current round for tournament %d: %w", tournamentID, err)
	}
	if round != plan.Round {
		return nil, fmt.Errorf("%w: plan is for round %d but tournament %d is at round %d",
			models.ErrInvalidTournamentState, plan.Round, tournamentID, round)
	}

	summary := &models.RoundSummary{
		TournamentID: tournamentID,
		Round:        round,
		ByePlayerID:  plan.ByePlayerID,
		Pairing:      []int(plan.Pairing),
		Matches:      make([]models.Match, 0, len(plan.Pairing)/2+1),
	}

	if plan.ByePlayerID != nil {
		bye := models.Match{Round: round, WinnerID: *plan.ByePlayerID, LoserID: models.ByeOpponentID, TournamentID: tournamentID}
		if err := r.record(ctx, bye); err != nil {
			return nil, err
		}
		summary.Matches = append(summary.Matches, bye)
	}

	for _, pair := range plan.Pairing.Pairs() {
		winnerID := r.oracle.Winner(pair[0], pair[1])
		var loserID int
		switch winnerID {
		case pair[0]:
			loserID = pair[1]
		case pair[1]:
			loserID = pair[0]
		default:
			return nil, fmt.Errorf("%w: oracle returned %d for pairing (%d, %d)", models.ErrInvalidTournamentState, winnerID, pair[0], pair[1])
		}

		match := models.Match{Round: round, WinnerID: winnerID, LoserID: loserID, TournamentID: tournamentID}
		if err := r.record(ctx, match); err != nil {
			return nil, err
		}
		summary.Matches = append(summary.Matches, match)
	}

	r.logger.Info("round resolved",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", round),
		slog.Int("matches", len(summary.Matches)))
	return summary, nil
}

func (r *Resolver) record(ctx context.Context, m models.Match) error {
	if err := r.ledger.RecordMatch(ctx, m.Round, m.WinnerID, m.LoserID, m.TournamentID); err != nil {
		return fmt.Errorf("failed to record round %d match %d vs %d: %w", m.Round, m.WinnerID, m.LoserID, err)
	}
	return nil
}

// declareWinner refreshes the tie-break and takes rank 1 of the standings.
func (r *Resolver) declareWinner(ctx context.Context, tournamentID int) (*models.Winner, []*models.Standing, error) {
	if err := r.planner.RecomputeOpponentWins(ctx, tournamentID); err != nil {
		return nil, nil, err
	}
	standings, err := r.standings.Standings(ctx, tournamentID, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load final standings for tournament %d: %w", tournamentID, err)
	}
	if len(standings) == 0 {
		return nil, nil, fmt.Errorf("%w: tournament %d has no standings rows", models.ErrDataIntegrity, tournamentID)
	}

	top := standings[0]
	return &models.Winner{TournamentID: tournamentID, PlayerID: top.ID, Name: top.Name}, standings, nil
}
