package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

var ErrPlayerNotFound = fmt.Errorf("%w: player not found", models.ErrDataIntegrity)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) (*models.Player, error)
	Count(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	ListIDs(ctx context.Context, exec SQLExecutor, tournamentID int) ([]int, error)
	UpdateOpponentWins(ctx context.Context, exec SQLExecutor, playerID, tournamentID, opponentWins int) error
	MaxTournamentID(ctx context.Context, exec SQLExecutor) (int, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type sqlPlayerRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewPlayerRepository(db *sql.DB, dialect Dialect) PlayerRepository {
	return &sqlPlayerRepository{db: db, dialect: dialect}
}

func (r *sqlPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := r.dialect.Rebind(`
		INSERT INTO players (name, tournament_id, opponent_wins)
		VALUES (?, ?, ?)
		RETURNING id`)
	err := r.getExecutor(exec).QueryRowContext(ctx, query, player.Name, player.TournamentID, player.OpponentWins).Scan(&player.ID)
	if err != nil {
		return fmt.Errorf("failed to create player %q: %w", player.Name, err)
	}
	return nil
}

func (r *sqlPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) (*models.Player, error) {
	query := r.dialect.Rebind(`
		SELECT p.id, p.name, p.tournament_id, p.opponent_wins,
		       (SELECT COUNT(*) FROM matches m WHERE m.tournament_id = p.tournament_id AND m.winner_id = p.id) AS wins
		FROM players p
		WHERE p.id = ? AND p.tournament_id = ?`)

	player := &models.Player{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, playerID, tournamentID).Scan(
		&player.ID,
		&player.Name,
		&player.TournamentID,
		&player.OpponentWins,
		&player.Wins,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d in tournament %d", ErrPlayerNotFound, playerID, tournamentID)
		}
		return nil, fmt.Errorf("failed to scan player %d: %w", playerID, err)
	}
	return player, nil
}

func (r *sqlPlayerRepository) Count(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var count int
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM players WHERE tournament_id = ?`)
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *sqlPlayerRepository) ListIDs(ctx context.Context, exec SQLExecutor, tournamentID int) ([]int, error) {
	query := r.dialect.Rebind(`SELECT id FROM players WHERE tournament_id = ? ORDER BY id ASC`)
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player ids for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player id rows iteration: %w", err)
	}
	return ids, nil
}

func (r *sqlPlayerRepository) UpdateOpponentWins(ctx context.Context, exec SQLExecutor, playerID, tournamentID, opponentWins int) error {
	query := r.dialect.Rebind(`UPDATE players SET opponent_wins = ? WHERE id = ? AND tournament_id = ?`)
	result, err := r.getExecutor(exec).ExecContext(ctx, query, opponentWins, playerID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to update opponent wins for player %d: %w", playerID, err)
	}
	if err := checkAffectedRows(result, ErrPlayerNotFound); err != nil {
		return fmt.Errorf("%w: id %d in tournament %d", err, playerID, tournamentID)
	}
	return nil
}

func (r *sqlPlayerRepository) MaxTournamentID(ctx context.Context, exec SQLExecutor) (int, error) {
	var maxID int
	query := `SELECT COALESCE(MAX(tournament_id), 0) FROM players`
	if err := r.getExecutor(exec).QueryRowContext(ctx, query).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to read highest tournament id: %w", err)
	}
	return maxID, nil
}

func (r *sqlPlayerRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := r.dialect.Rebind(`DELETE FROM players WHERE tournament_id = ?`)
	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID)
	return err
}
