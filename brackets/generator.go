package brackets

import (
	"context"
)

type GeneratePairingParams struct {
	TournamentID int
	Round        int
	// PlayerIDs are the players to pair, bye recipient already removed.
	// For ranked generators the slice is in standings order.
	PlayerIDs []int
}

type PairingGenerator interface {
	GeneratePairing(ctx context.Context, params GeneratePairingParams) (Pairing, error)

	GetName() string
}
