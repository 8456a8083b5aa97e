package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Dosada05/swiss-tournament/models"
)

type StandingRepository interface {
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, excludePlayerID *int) ([]*models.Standing, error)
}

type sqlStandingRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewStandingRepository(db *sql.DB, dialect Dialect) StandingRepository {
	return &sqlStandingRepository{db: db, dialect: dialect}
}

func (r *sqlStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, excludePlayerID *int) ([]*models.Standing, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT p.id, p.name,
		       (SELECT COUNT(*) FROM matches m
		         WHERE m.tournament_id = p.tournament_id AND m.winner_id = p.id) AS wins,
		       p.opponent_wins,
		       (SELECT COUNT(*) FROM matches m
		         WHERE m.tournament_id = p.tournament_id AND (m.winner_id = p.id OR m.loser_id = p.id)) AS matches_played
		FROM players p
		WHERE p.tournament_id = ?`)
	args := []interface{}{tournamentID}

	if excludePlayerID != nil {
		queryBuilder.WriteString(" AND p.id <> ?")
		args = append(args, *excludePlayerID)
	}

	// id keeps the order stable between equal records
	queryBuilder.WriteString(" ORDER BY wins DESC, p.opponent_wins DESC, p.id ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, r.dialect.Rebind(queryBuilder.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		var s models.Standing
		if err := rows.Scan(&s.ID, &s.Name, &s.Wins, &s.OpponentWins, &s.MatchesPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}
