package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

// RandomPairingGenerator shuffles the players and pairs them consecutively.
// It is used for round 1, where no standings exist yet.
type RandomPairingGenerator struct {
	rng Randomizer
}

func NewRandomPairingGenerator(rng Randomizer) PairingGenerator {
	return &RandomPairingGenerator{rng: rng}
}

func (g *RandomPairingGenerator) GetName() string {
	return "Random"
}

func (g *RandomPairingGenerator) GeneratePairing(ctx context.Context, params GeneratePairingParams) (Pairing, error) {
	n := len(params.PlayerIDs)
	if n < 2 || n%2 != 0 {
		return nil, fmt.Errorf("%w: random pairing needs a positive even number of players (found %d)", models.ErrInvalidTournamentState, n)
	}

	shuffled := make(Pairing, n)
	copy(shuffled, params.PlayerIDs)
	g.rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled, nil
}
