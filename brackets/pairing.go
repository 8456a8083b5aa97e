package brackets

import (
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

// Pairing is an ordered list of player ids grouped consecutively in twos:
// (p[0], p[1]), (p[2], p[3]), ...
type Pairing []int

// Pairs splits the pairing into its matches. A trailing odd id is ignored.
func (p Pairing) Pairs() [][2]int {
	pairs := make([][2]int, 0, len(p)/2)
	for i := 0; i+1 < len(p); i += 2 {
		pairs = append(pairs, [2]int{p[i], p[i+1]})
	}
	return pairs
}

// Validate checks that the pairing covers exactly the expected players, each once.
func (p Pairing) Validate(expected []int) error {
	if len(p)%2 != 0 {
		return fmt.Errorf("%w: pairing has odd length %d", models.ErrInvalidTournamentState, len(p))
	}
	if len(p) != len(expected) {
		return fmt.Errorf("%w: pairing has %d players, expected %d", models.ErrInvalidTournamentState, len(p), len(expected))
	}

	want := make(map[int]bool, len(expected))
	for _, id := range expected {
		want[id] = true
	}
	seen := make(map[int]bool, len(p))
	for _, id := range p {
		if seen[id] {
			return fmt.Errorf("%w: player %d paired twice", models.ErrInvalidTournamentState, id)
		}
		if !want[id] {
			return fmt.Errorf("%w: player %d is not expected in this round", models.ErrInvalidTournamentState, id)
		}
		seen[id] = true
	}
	return nil
}
