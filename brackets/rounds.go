package brackets

import "math/bits"

// TotalRounds returns how many rounds a tournament of playerCount entrants plays:
// one round for four players or fewer, floor(log2(playerCount)) otherwise.
func TotalRounds(playerCount int) int {
	if playerCount <= 4 {
		return 1
	}
	return bits.Len(uint(playerCount)) - 1
}
