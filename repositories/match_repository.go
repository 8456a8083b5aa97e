package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	ListOpponentIDs(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) ([]int, error)
	LastPlayedRound(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type sqlMatchRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewMatchRepository(db *sql.DB, dialect Dialect) MatchRepository {
	return &sqlMatchRepository{db: db, dialect: dialect}
}

func (r *sqlMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := r.dialect.Rebind(`
		INSERT INTO matches (round, winner_id, loser_id, tournament_id)
		VALUES (?, ?, ?, ?)`)
	_, err := r.getExecutor(exec).ExecContext(ctx, query, match.Round, match.WinnerID, match.LoserID, match.TournamentID)
	if err != nil {
		return fmt.Errorf("failed to insert match for tournament %d round %d: %w", match.TournamentID, match.Round, err)
	}
	return nil
}

func (r *sqlMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	query := r.dialect.Rebind(`
		SELECT round, winner_id, loser_id, tournament_id
		FROM matches
		WHERE tournament_id = ?
		ORDER BY round ASC, pairing_id ASC`)
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if err := rows.Scan(&match.Round, &match.WinnerID, &match.LoserID, &match.TournamentID); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

// ListOpponentIDs returns every real opponent of the player, byes excluded.
func (r *sqlMatchRepository) ListOpponentIDs(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) ([]int, error) {
	query := r.dialect.Rebind(`
		SELECT loser_id FROM matches
		WHERE tournament_id = ? AND winner_id = ? AND loser_id <> ?
		UNION ALL
		SELECT winner_id FROM matches
		WHERE tournament_id = ? AND loser_id = ?`)
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID, playerID, models.ByeOpponentID, tournamentID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query opponents of player %d: %w", playerID, err)
	}
	defer rows.Close()

	opponents := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan opponent id: %w", err)
		}
		opponents = append(opponents, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during opponent rows iteration: %w", err)
	}
	return opponents, nil
}

// LastPlayedRound is the highest round holding a non-bye match, 0 if none.
func (r *sqlMatchRepository) LastPlayedRound(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var last int
	query := r.dialect.Rebind(`SELECT COALESCE(MAX(round), 0) FROM matches WHERE tournament_id = ? AND loser_id <> ?`)
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID, models.ByeOpponentID).Scan(&last); err != nil {
		return 0, fmt.Errorf("failed to read last round for tournament %d: %w", tournamentID, err)
	}
	return last, nil
}

func (r *sqlMatchRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := r.dialect.Rebind(`DELETE FROM matches WHERE tournament_id = ?`)
	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID)
	return err
}
