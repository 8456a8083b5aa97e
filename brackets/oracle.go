package brackets

// Randomizer is the source of every random decision in a run.
// *rand.Rand from math/rand satisfies it, so a run is reproducible from its seed.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// OutcomeOracle decides who wins a pairing. It must return one of its two arguments.
type OutcomeOracle interface {
	Winner(playerAID, playerBID int) int
}

type OracleFunc func(playerAID, playerBID int) int

func (f OracleFunc) Winner(playerAID, playerBID int) int {
	return f(playerAID, playerBID)
}

// NewCoinFlipOracle picks either player with equal probability.
func NewCoinFlipOracle(rng Randomizer) OutcomeOracle {
	return OracleFunc(func(a, b int) int {
		if rng.Intn(2) == 0 {
			return a
		}
		return b
	})
}

// HigherSeedOracle always lets the lower id win.
var HigherSeedOracle OutcomeOracle = OracleFunc(func(a, b int) int {
	if a < b {
		return a
	}
	return b
})
