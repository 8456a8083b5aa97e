package brackets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/models"
)

// RoundPlan is the outcome of planning one round.
type RoundPlan struct {
	TournamentID int
	Round        int
	ByePlayerID  *int
	Pairing      Pairing
}

// Planner decides the bye recipient of a round and produces its pairing.
type Planner struct {
	standings  StandingsProvider
	ledger     RoundLedger
	rng        Randomizer
	firstRound PairingGenerator
	swiss      PairingGenerator
	logger     *slog.Logger
}

func NewPlanner(standings StandingsProvider, ledger RoundLedger, rng Randomizer, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		standings:  standings,
		ledger:     ledger,
		rng:        rng,
		firstRound: NewRandomPairingGenerator(rng),
		swiss:      NewSwissPairingGenerator(),
		logger:     logger,
	}
}

// PlanFirstRound pairs the raw roster at random. With an odd roster one player,
// chosen uniformly at random, gets the bye.
func (p *Planner) PlanFirstRound(ctx context.Context, tournamentID int) (*RoundPlan, error) {
	playerIDs, err := p.standings.PlayerIDs(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for tournament %d: %w", tournamentID, err)
	}
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("%w: tournament %d has %d player(s), at least 2 required", models.ErrInvalidTournamentState, tournamentID, len(playerIDs))
	}

	pool := make([]int, len(playerIDs))
	copy(pool, playerIDs)
	plan := &RoundPlan{TournamentID: tournamentID, Round: 1}

	if len(pool)%2 != 0 {
		idx := p.rng.Intn(len(pool))
		byeID := pool[idx]
		if err := p.awardBye(ctx, tournamentID, byeID); err != nil {
			return nil, err
		}
		pool = append(pool[:idx], pool[idx+1:]...)
		plan.ByePlayerID = &byeID
	}

	pairing, err := p.firstRound.GeneratePairing(ctx, GeneratePairingParams{
		TournamentID: tournamentID,
		Round:        plan.Round,
		PlayerIDs:    pool,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate round 1 pairing for tournament %d: %w", tournamentID, err)
	}
	if err := pairing.Validate(pool); err != nil {
		return nil, err
	}
	plan.Pairing = pairing

	p.logger.Info("round planned",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", plan.Round),
		slog.String("generator", p.firstRound.GetName()),
		slog.Int("pairs", len(pairing)/2))
	return plan, nil
}

// PlanNextRound ranks the players on fresh standings and pairs adjacent ranks.
// With an odd roster the lowest ranked player without a bye sits out.
func (p *Planner) PlanNextRound(ctx context.Context, tournamentID, round int) (*RoundPlan, error) {
	if err := p.RecomputeOpponentWins(ctx, tournamentID); err != nil {
		return nil, err
	}

	playerCount, err := p.standings.CountPlayers(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count players for tournament %d: %w", tournamentID, err)
	}
	if playerCount < 2 {
		return nil, fmt.Errorf("%w: tournament %d has %d player(s), at least 2 required", models.ErrInvalidTournamentState, tournamentID, playerCount)
	}

	standings, err := p.standings.Standings(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings for tournament %d: %w", tournamentID, err)
	}
	if len(standings) != playerCount {
		return nil, fmt.Errorf("%w: tournament %d has %d players but %d standings rows", models.ErrDataIntegrity, tournamentID, playerCount, len(standings))
	}

	plan := &RoundPlan{TournamentID: tournamentID, Round: round}

	if playerCount%2 != 0 {
		byed, err := p.ledger.ByedPlayers(ctx, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to list byed players for tournament %d: %w", tournamentID, err)
		}
		byeID, ok := lowestRankedWithoutBye(standings, byed)
		if !ok {
			return nil, fmt.Errorf("%w: every player in tournament %d already received a bye", models.ErrConstraintViolation, tournamentID)
		}
		if err := p.awardBye(ctx, tournamentID, byeID); err != nil {
			return nil, err
		}
		plan.ByePlayerID = &byeID

		standings, err = p.standings.Standings(ctx, tournamentID, &byeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load standings without player %d: %w", byeID, err)
		}
	}

	ranked := make([]int, 0, len(standings))
	for _, s := range standings {
		ranked = append(ranked, s.ID)
	}

	pairing, err := p.swiss.GeneratePairing(ctx, GeneratePairingParams{
		TournamentID: tournamentID,
		Round:        round,
		PlayerIDs:    ranked,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate round %d pairing for tournament %d: %w", round, tournamentID, err)
	}
	if err := pairing.Validate(ranked); err != nil {
		return nil, err
	}
	plan.Pairing = pairing

	p.logger.Info("round planned",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", round),
		slog.String("generator", p.swiss.GetName()),
		slog.Int("pairs", len(pairing)/2))
	return plan, nil
}

// RecomputeOpponentWins stores, for every player, the summed wins of all real
// opponents met so far. Reads and writes must not interleave with another run
// on the same tournament.
func (p *Planner) RecomputeOpponentWins(ctx context.Context, tournamentID int) error {
	standings, err := p.standings.Standings(ctx, tournamentID, nil)
	if err != nil {
		return fmt.Errorf("failed to load standings for tournament %d: %w", tournamentID, err)
	}

	wins := make(map[int]int, len(standings))
	for _, s := range standings {
		wins[s.ID] = s.Wins
	}

	for _, s := range standings {
		opponents, err := p.standings.Opponents(ctx, s.ID, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list opponents of player %d: %w", s.ID, err)
		}
		total := 0
		for _, opponentID := range opponents {
			w, ok := wins[opponentID]
			if !ok {
				return fmt.Errorf("%w: opponent %d of player %d has no standings row in tournament %d",
					models.ErrDataIntegrity, opponentID, s.ID, tournamentID)
			}
			total += w
		}
		if err := p.standings.SetOpponentWins(ctx, s.ID, tournamentID, total); err != nil {
			return fmt.Errorf("failed to store opponent wins for player %d: %w", s.ID, err)
		}
	}
	return nil
}

func (p *Planner) awardBye(ctx context.Context, tournamentID, playerID int) error {
	already, err := p.ledger.HasBye(ctx, playerID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to check bye for player %d: %w", playerID, err)
	}
	if already {
		return fmt.Errorf("%w: player %d already received a bye in tournament %d", models.ErrConstraintViolation, playerID, tournamentID)
	}
	if err := p.ledger.RecordBye(ctx, playerID, tournamentID); err != nil {
		return fmt.Errorf("failed to record bye for player %d: %w", playerID, err)
	}
	p.logger.Info("bye awarded", slog.Int("tournament_id", tournamentID), slog.Int("player_id", playerID))
	return nil
}

// lowestRankedWithoutBye scans standings from the bottom up.
func lowestRankedWithoutBye(standings []*models.Standing, byed []int) (int, bool) {
	hasBye := make(map[int]bool, len(byed))
	for _, id := range byed {
		hasBye[id] = true
	}
	for i := len(standings) - 1; i >= 0; i-- {
		if !hasBye[standings[i].ID] {
			return standings[i].ID, true
		}
	}
	return 0, false
}
