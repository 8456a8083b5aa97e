package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
)

type RunTournamentInput struct {
	Entrants []string `json:"entrants"`
	// Seed drives round 1 pairing, round 1 bye and the coin flip oracle.
	Seed *int64 `json:"seed,omitempty"`
	// Deterministic replaces the coin flip with "lower id wins".
	Deterministic bool `json:"deterministic,omitempty"`
}

type TournamentServiceConfig struct {
	Ledger   brackets.Ledger
	Archiver ResultArchiver
	Observer brackets.RoundObserver
	// DefaultSeed is used when a run does not bring its own seed.
	DefaultSeed *int64
	Logger      *slog.Logger
}

// TournamentService registers entrants and plays whole tournaments against one ledger.
// Runs are serialised: the engine assumes exclusive access to the ledger.
type TournamentService struct {
	ledger      brackets.Ledger
	archiver    ResultArchiver
	observer    brackets.RoundObserver
	defaultSeed *int64
	logger      *slog.Logger
	mu          sync.Mutex
}

func NewTournamentService(cfg TournamentServiceConfig) *TournamentService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentService{
		ledger:      cfg.Ledger,
		archiver:    cfg.Archiver,
		observer:    cfg.Observer,
		defaultSeed: cfg.DefaultSeed,
		logger:      logger,
	}
}

// Run registers the entrants as a new tournament and plays it to the end.
func (s *TournamentService) Run(ctx context.Context, input RunTournamentInput) (*models.TournamentResult, error) {
	names, err := validateEntrants(input.Entrants)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seed := s.seedFor(input)
	rng := rand.New(rand.NewSource(seed))

	tournamentID, err := s.ledger.NextTournamentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate tournament id: %w", err)
	}

	// entrants are enrolled in random order so ids carry no meaning
	enrolment := make([]string, len(names))
	copy(enrolment, names)
	rng.Shuffle(len(enrolment), func(i, j int) {
		enrolment[i], enrolment[j] = enrolment[j], enrolment[i]
	})
	if err := s.ledger.RegisterPlayers(ctx, tournamentID, enrolment); err != nil {
		return nil, fmt.Errorf("failed to register players for tournament %d: %w", tournamentID, err)
	}

	playerCount, err := s.ledger.CountPlayers(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count players for tournament %d: %w", tournamentID, err)
	}
	totalRounds := brackets.TotalRounds(playerCount)

	s.logger.Info("tournament started",
		slog.Int("tournament_id", tournamentID),
		slog.Int("players", playerCount),
		slog.Int("total_rounds", totalRounds),
		slog.Int64("seed", seed))

	var oracle brackets.OutcomeOracle = brackets.NewCoinFlipOracle(rng)
	if input.Deterministic {
		oracle = brackets.HigherSeedOracle
	}

	planner := brackets.NewPlanner(s.ledger, s.ledger, rng, s.logger)
	resolver := brackets.NewResolver(planner, s.ledger, s.ledger, oracle, s.logger)
	if s.observer != nil {
		resolver.WithObserver(s.observer)
	}

	result, err := resolver.Run(ctx, tournamentID, totalRounds)
	if err != nil {
		return nil, fmt.Errorf("tournament %d failed: %w", tournamentID, err)
	}

	if s.archiver != nil {
		location, err := s.archiver.Archive(ctx, result)
		if err != nil {
			s.logger.Warn("failed to archive tournament result", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		} else {
			result.ArchiveURL = &location
		}
	}
	return result, nil
}

func (s *TournamentService) GetStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	if err := s.ensureExists(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.ledger.Standings(ctx, tournamentID, nil)
}

func (s *TournamentService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if err := s.ensureExists(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.ledger.Matches(ctx, tournamentID)
}

// GetReport loads standings, matches and byes of a tournament concurrently.
func (s *TournamentService) GetReport(ctx context.Context, tournamentID int) (*models.TournamentReport, error) {
	if err := s.ensureExists(ctx, tournamentID); err != nil {
		return nil, err
	}

	report := &models.TournamentReport{TournamentID: tournamentID}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		standings, err := s.ledger.Standings(gCtx, tournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to load standings: %w", err)
		}
		report.Standings = standings
		return nil
	})
	g.Go(func() error {
		matches, err := s.ledger.Matches(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load matches: %w", err)
		}
		report.Matches = matches
		return nil
	})
	g.Go(func() error {
		byed, err := s.ledger.ByedPlayers(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load byes: %w", err)
		}
		report.ByedPlayers = byed
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build report for tournament %d: %w", tournamentID, err)
	}
	return report, nil
}

// Purge removes every record of a tournament.
func (s *TournamentService) Purge(ctx context.Context, tournamentID int) error {
	if err := s.ensureExists(ctx, tournamentID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.PurgeTournament(ctx, tournamentID); err != nil {
		return fmt.Errorf("failed to purge tournament %d: %w", tournamentID, err)
	}
	if s.archiver != nil {
		if err := s.archiver.Discard(ctx, tournamentID); err != nil {
			s.logger.Warn("failed to discard archived results", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
	}
	s.logger.Info("tournament purged", slog.Int("tournament_id", tournamentID))
	return nil
}

func (s *TournamentService) ensureExists(ctx context.Context, tournamentID int) error {
	count, err := s.ledger.CountPlayers(ctx, tournamentID)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
	}
	return nil
}

func (s *TournamentService) seedFor(input RunTournamentInput) int64 {
	if input.Seed != nil {
		return *input.Seed
	}
	if s.defaultSeed != nil {
		return *s.defaultSeed
	}
	return time.Now().UnixNano()
}

func validateEntrants(entrants []string) ([]string, error) {
	names := make([]string, 0, len(entrants))
	for i, raw := range entrants {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("%w: entrant %d: %w", ErrValidationFailed, i, ErrEntrantNameEmpty)
		}
		names = append(names, name)
	}
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: %d entrant(s), at least 2 are needed to pair a round", models.ErrInvalidTournamentState, len(names))
	}
	return names, nil
}
