package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

// SwissPairingGenerator pairs players strictly by adjacent rank: 1 with 2, 3 with 4, ...
// It does not try to avoid rematches or solve score groups.
type SwissPairingGenerator struct{}

func NewSwissPairingGenerator() PairingGenerator {
	return &SwissPairingGenerator{}
}

func (g *SwissPairingGenerator) GetName() string {
	return "Swiss"
}

func (g *SwissPairingGenerator) GeneratePairing(ctx context.Context, params GeneratePairingParams) (Pairing, error) {
	n := len(params.PlayerIDs)
	if n < 2 || n%2 != 0 {
		return nil, fmt.Errorf("%w: swiss pairing needs a positive even number of players (found %d)", models.ErrInvalidTournamentState, n)
	}

	pairing := make(Pairing, 0, n)
	for i := 0; i < n; i += 2 {
		pairing = append(pairing, params.PlayerIDs[i], params.PlayerIDs[i+1])
	}
	return pairing, nil
}
