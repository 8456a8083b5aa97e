package models

// ByeOpponentID is stored as the loser of a match that was awarded as a bye.
const ByeOpponentID = 0

type Match struct {
	Round        int `json:"round" db:"round"`
	WinnerID     int `json:"winner_id" db:"winner_id"`
	LoserID      int `json:"loser_id" db:"loser_id"`
	TournamentID int `json:"tournament_id" db:"tournament_id"`
}

// IsBye reports whether the match has no real opponent.
func (m Match) IsBye() bool {
	return m.LoserID == ByeOpponentID
}
