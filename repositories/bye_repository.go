package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

var ErrByeAlreadyRecorded = fmt.Errorf("%w: player already received a bye", models.ErrConstraintViolation)

type ByeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bye *models.Bye) error
	Exists(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) (bool, error)
	ListPlayerIDs(ctx context.Context, exec SQLExecutor, tournamentID int) ([]int, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type sqlByeRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewByeRepository(db *sql.DB, dialect Dialect) ByeRepository {
	return &sqlByeRepository{db: db, dialect: dialect}
}

func (r *sqlByeRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlByeRepository) Create(ctx context.Context, exec SQLExecutor, bye *models.Bye) error {
	query := r.dialect.Rebind(`INSERT INTO byes (byed_player_id, tournament_id) VALUES (?, ?)`)
	_, err := r.getExecutor(exec).ExecContext(ctx, query, bye.PlayerID, bye.TournamentID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: player %d in tournament %d", ErrByeAlreadyRecorded, bye.PlayerID, bye.TournamentID)
		}
		return fmt.Errorf("failed to insert bye for player %d: %w", bye.PlayerID, err)
	}
	return nil
}

func (r *sqlByeRepository) Exists(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) (bool, error) {
	var count int
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM byes WHERE byed_player_id = ? AND tournament_id = ?`)
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, playerID, tournamentID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check bye for player %d: %w", playerID, err)
	}
	return count > 0, nil
}

func (r *sqlByeRepository) ListPlayerIDs(ctx context.Context, exec SQLExecutor, tournamentID int) ([]int, error) {
	query := r.dialect.Rebind(`SELECT byed_player_id FROM byes WHERE tournament_id = ? ORDER BY byed_player_id ASC`)
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query byes for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bye row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bye rows iteration: %w", err)
	}
	return ids, nil
}

func (r *sqlByeRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := r.dialect.Rebind(`DELETE FROM byes WHERE tournament_id = ?`)
	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID)
	return err
}
