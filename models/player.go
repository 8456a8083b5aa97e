package models

// Player is an entrant registered in a single tournament.
type Player struct {
	ID           int    `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Wins         int    `json:"wins" db:"wins"`
	OpponentWins int    `json:"opponent_wins" db:"opponent_wins"`
}

// Bye marks that a player has already been given a free win in a tournament.
type Bye struct {
	PlayerID     int `json:"player_id" db:"player_id"`
	TournamentID int `json:"tournament_id" db:"tournament_id"`
}
