package models

// Winner is the rank 1 player once the last round has been resolved.
type Winner struct {
	TournamentID int    `json:"tournament_id"`
	PlayerID     int    `json:"player_id"`
	Name         string `json:"name"`
}

// RoundSummary is what happened in a single resolved round.
type RoundSummary struct {
	TournamentID int     `json:"tournament_id"`
	Round        int     `json:"round"`
	ByePlayerID  *int    `json:"bye_player_id,omitempty"`
	Pairing      []int   `json:"pairing"`
	Matches      []Match `json:"matches"`
}

type TournamentResult struct {
	TournamentID int             `json:"tournament_id"`
	TotalRounds  int             `json:"total_rounds"`
	Winner       *Winner         `json:"winner"`
	Rounds       []*RoundSummary `json:"rounds"`
	Standings    []*Standing     `json:"standings"`
	ArchiveURL   *string         `json:"archive_url,omitempty"`
}

// TournamentReport is a read-only snapshot of a tournament's ledger.
type TournamentReport struct {
	TournamentID int         `json:"tournament_id"`
	Standings    []*Standing `json:"standings"`
	Matches      []*Match    `json:"matches"`
	ByedPlayers  []int       `json:"byed_players"`
}
