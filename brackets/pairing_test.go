package brackets

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
)

func TestTotalRounds(t *testing.T) {
	tests := []struct {
		players int
		want    int
	}{
		{players: 2, want: 1},
		{players: 3, want: 1},
		{players: 4, want: 1},
		{players: 5, want: 2},
		{players: 7, want: 2},
		{players: 8, want: 3},
		{players: 16, want: 4},
		{players: 17, want: 4},
		{players: 100, want: 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalRounds(tt.players), "players=%d", tt.players)
	}
}

func TestPairingPairs(t *testing.T) {
	assert.Equal(t, [][2]int{{4, 1}, {3, 2}}, Pairing{4, 1, 3, 2}.Pairs())
	assert.Empty(t, Pairing{}.Pairs())
}

func TestPairingValidate(t *testing.T) {
	tests := []struct {
		name     string
		pairing  Pairing
		expected []int
		wantErr  bool
	}{
		{name: "valid", pairing: Pairing{2, 1, 4, 3}, expected: []int{1, 2, 3, 4}},
		{name: "odd length", pairing: Pairing{1, 2, 3}, expected: []int{1, 2, 3}, wantErr: true},
		{name: "missing player", pairing: Pairing{1, 2}, expected: []int{1, 2, 3, 4}, wantErr: true},
		{name: "duplicate", pairing: Pairing{1, 2, 2, 3}, expected: []int{1, 2, 3, 4}, wantErr: true},
		{name: "stranger", pairing: Pairing{1, 2, 3, 9}, expected: []int{1, 2, 3, 4}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pairing.Validate(tt.expected)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidTournamentState)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRandomPairingGenerator(t *testing.T) {
	ctx := context.Background()
	gen := NewRandomPairingGenerator(rand.New(rand.NewSource(42)))
	assert.Equal(t, "Random", gen.GetName())

	ids := []int{1, 2, 3, 4, 5, 6}
	pairing, err := gen.GeneratePairing(ctx, GeneratePairingParams{TournamentID: 1, Round: 1, PlayerIDs: ids})
	require.NoError(t, err)
	assert.NoError(t, pairing.Validate(ids))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids, "input must not be reordered")

	_, err = gen.GeneratePairing(ctx, GeneratePairingParams{PlayerIDs: []int{1, 2, 3}})
	assert.ErrorIs(t, err, models.ErrInvalidTournamentState)
	_, err = gen.GeneratePairing(ctx, GeneratePairingParams{})
	assert.ErrorIs(t, err, models.ErrInvalidTournamentState)
}

func TestSwissPairingGenerator(t *testing.T) {
	ctx := context.Background()
	gen := NewSwissPairingGenerator()
	assert.Equal(t, "Swiss", gen.GetName())

	pairing, err := gen.GeneratePairing(ctx, GeneratePairingParams{PlayerIDs: []int{7, 3, 9, 1}})
	require.NoError(t, err)
	assert.Equal(t, Pairing{7, 3, 9, 1}, pairing)

	_, err = gen.GeneratePairing(ctx, GeneratePairingParams{PlayerIDs: []int{7}})
	assert.ErrorIs(t, err, models.ErrInvalidTournamentState)
}

func TestOracles(t *testing.T) {
	assert.Equal(t, 2, HigherSeedOracle.Winner(5, 2))
	assert.Equal(t, 2, HigherSeedOracle.Winner(2, 5))

	coin := NewCoinFlipOracle(rand.New(rand.NewSource(1)))
	seen := map[int]bool{}
	for i := 0; i < 64; i++ {
		w := coin.Winner(10, 20)
		require.Contains(t, []int{10, 20}, w)
		seen[w] = true
	}
	assert.Len(t, seen, 2)
}
