package brackets

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
)

// Registry registers entrants and allocates tournament ids.
type Registry interface {
	RegisterPlayers(ctx context.Context, tournamentID int, names []string) error
	NextTournamentID(ctx context.Context) (int, error)
	PurgeTournament(ctx context.Context, tournamentID int) error
}

// StandingsProvider exposes the ranked view of a tournament.
// Lookups for a player id with no row must fail with models.ErrDataIntegrity.
type StandingsProvider interface {
	CountPlayers(ctx context.Context, tournamentID int) (int, error)
	// PlayerIDs returns the ids of the tournament's players in ascending order.
	PlayerIDs(ctx context.Context, tournamentID int) ([]int, error)
	// Standings returns rows ordered by wins desc, opponent wins desc, id asc.
	// When excludePlayerID is set that player is left out.
	Standings(ctx context.Context, tournamentID int, excludePlayerID *int) ([]*models.Standing, error)
	// Opponents lists the real opponents a player has met, one entry per match.
	Opponents(ctx context.Context, playerID, tournamentID int) ([]int, error)
	SetOpponentWins(ctx context.Context, playerID, tournamentID, opponentWins int) error
}

// RoundLedger records match outcomes and byes.
type RoundLedger interface {
	// RecordMatch stores a result; loserID models.ByeOpponentID denotes a bye.
	RecordMatch(ctx context.Context, round, winnerID, loserID, tournamentID int) error
	// RecordBye fails with models.ErrConstraintViolation when the player already has one.
	RecordBye(ctx context.Context, playerID, tournamentID int) error
	HasBye(ctx context.Context, playerID, tournamentID int) (bool, error)
	ByedPlayers(ctx context.Context, tournamentID int) ([]int, error)
	// CurrentRound is the highest round with a non-bye match plus one, or 1.
	CurrentRound(ctx context.Context, tournamentID int) (int, error)
	Matches(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type Ledger interface {
	Registry
	StandingsProvider
	RoundLedger
}
