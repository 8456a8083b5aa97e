package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

// SQLLedger stores players, matches and byes in a relational database and
// serves the ranked standings the pairing engine works from.
type SQLLedger struct {
	db        *sql.DB
	players   PlayerRepository
	matches   MatchRepository
	byes      ByeRepository
	standings StandingRepository
}

func NewSQLLedger(db *sql.DB, dialect Dialect) *SQLLedger {
	return &SQLLedger{
		db:        db,
		players:   NewPlayerRepository(db, dialect),
		matches:   NewMatchRepository(db, dialect),
		byes:      NewByeRepository(db, dialect),
		standings: NewStandingRepository(db, dialect),
	}
}

func (l *SQLLedger) RegisterPlayers(ctx context.Context, tournamentID int, names []string) error {
	return withTx(ctx, l.db, func(tx *sql.Tx) error {
		for _, name := range names {
			player := &models.Player{Name: name, TournamentID: tournamentID}
			if err := l.players.Create(ctx, tx, player); err != nil {
				return err
			}
		}
		return nil
	})
}

func (l *SQLLedger) NextTournamentID(ctx context.Context) (int, error) {
	maxID, err := l.players.MaxTournamentID(ctx, nil)
	if err != nil {
		return 0, err
	}
	return maxID + 1, nil
}

func (l *SQLLedger) PurgeTournament(ctx context.Context, tournamentID int) error {
	return withTx(ctx, l.db, func(tx *sql.Tx) error {
		if err := l.byes.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete byes of tournament %d: %w", tournamentID, err)
		}
		if err := l.matches.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete matches of tournament %d: %w", tournamentID, err)
		}
		if err := l.players.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete players of tournament %d: %w", tournamentID, err)
		}
		return nil
	})
}

func (l *SQLLedger) CountPlayers(ctx context.Context, tournamentID int) (int, error) {
	return l.players.Count(ctx, nil, tournamentID)
}

func (l *SQLLedger) PlayerIDs(ctx context.Context, tournamentID int) ([]int, error) {
	return l.players.ListIDs(ctx, nil, tournamentID)
}

func (l *SQLLedger) Standings(ctx context.Context, tournamentID int, excludePlayerID *int) ([]*models.Standing, error) {
	return l.standings.ListByTournament(ctx, nil, tournamentID, excludePlayerID)
}

func (l *SQLLedger) Opponents(ctx context.Context, playerID, tournamentID int) ([]int, error) {
	if _, err := l.players.GetByID(ctx, nil, playerID, tournamentID); err != nil {
		return nil, err
	}
	return l.matches.ListOpponentIDs(ctx, nil, playerID, tournamentID)
}

func (l *SQLLedger) SetOpponentWins(ctx context.Context, playerID, tournamentID, opponentWins int) error {
	return l.players.UpdateOpponentWins(ctx, nil, playerID, tournamentID, opponentWins)
}

func (l *SQLLedger) RecordMatch(ctx context.Context, round, winnerID, loserID, tournamentID int) error {
	if round < 1 {
		return fmt.Errorf("%w: round must be at least 1, got %d", models.ErrInvalidTournamentState, round)
	}
	return withTx(ctx, l.db, func(tx *sql.Tx) error {
		if _, err := l.players.GetByID(ctx, tx, winnerID, tournamentID); err != nil {
			return err
		}
		if loserID != models.ByeOpponentID {
			if _, err := l.players.GetByID(ctx, tx, loserID, tournamentID); err != nil {
				return err
			}
		}
		return l.matches.Create(ctx, tx, &models.Match{
			Round:        round,
			WinnerID:     winnerID,
			LoserID:      loserID,
			TournamentID: tournamentID,
		})
	})
}

func (l *SQLLedger) RecordBye(ctx context.Context, playerID, tournamentID int) error {
	return withTx(ctx, l.db, func(tx *sql.Tx) error {
		if _, err := l.players.GetByID(ctx, tx, playerID, tournamentID); err != nil {
			return err
		}
		exists, err := l.byes.Exists(ctx, tx, playerID, tournamentID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: player %d in tournament %d", ErrByeAlreadyRecorded, playerID, tournamentID)
		}
		return l.byes.Create(ctx, tx, &models.Bye{PlayerID: playerID, TournamentID: tournamentID})
	})
}

func (l *SQLLedger) HasBye(ctx context.Context, playerID, tournamentID int) (bool, error) {
	return l.byes.Exists(ctx, nil, playerID, tournamentID)
}

func (l *SQLLedger) ByedPlayers(ctx context.Context, tournamentID int) ([]int, error) {
	return l.byes.ListPlayerIDs(ctx, nil, tournamentID)
}

func (l *SQLLedger) CurrentRound(ctx context.Context, tournamentID int) (int, error) {
	last, err := l.matches.LastPlayedRound(ctx, nil, tournamentID)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (l *SQLLedger) Matches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return l.matches.ListByTournament(ctx, nil, tournamentID)
}
