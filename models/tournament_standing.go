package models

// Standing is one row of the ranked view of a tournament.
// Rows are ordered by wins desc, then opponent wins desc, then id asc.
type Standing struct {
	ID            int    `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Wins          int    `json:"wins" db:"wins"`
	OpponentWins  int    `json:"opponent_wins" db:"opponent_wins"`
	MatchesPlayed int    `json:"matches_played" db:"matches_played"`
}

// Less reports whether s ranks above other.
func (s *Standing) Less(other *Standing) bool {
	if s.Wins != other.Wins {
		return s.Wins > other.Wins
	}
	if s.OpponentWins != other.OpponentWins {
		return s.OpponentWins > other.OpponentWins
	}
	return s.ID < other.ID
}
