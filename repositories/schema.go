package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS players (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    tournament_id INTEGER NOT NULL,
    opponent_wins INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS matches (
    pairing_id SERIAL PRIMARY KEY,
    round INTEGER NOT NULL CHECK (round >= 1),
    winner_id INTEGER NOT NULL,
    loser_id INTEGER NOT NULL,
    tournament_id INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS byes (
    byed_player_id INTEGER NOT NULL,
    tournament_id INTEGER NOT NULL,
    PRIMARY KEY (byed_player_id, tournament_id)
);

CREATE INDEX IF NOT EXISTS idx_players_tournament_id ON players(tournament_id);
CREATE INDEX IF NOT EXISTS idx_matches_tournament_round ON matches(tournament_id, round);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    tournament_id INTEGER NOT NULL,
    opponent_wins INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS matches (
    pairing_id INTEGER PRIMARY KEY AUTOINCREMENT,
    round INTEGER NOT NULL CHECK (round >= 1),
    winner_id INTEGER NOT NULL,
    loser_id INTEGER NOT NULL,
    tournament_id INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS byes (
    byed_player_id INTEGER NOT NULL,
    tournament_id INTEGER NOT NULL,
    PRIMARY KEY (byed_player_id, tournament_id)
);

CREATE INDEX IF NOT EXISTS idx_players_tournament_id ON players(tournament_id);
CREATE INDEX IF NOT EXISTS idx_matches_tournament_round ON matches(tournament_id, round);
`

// Migrate creates the ledger tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == DialectPostgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", dialect, err)
	}
	return nil
}
