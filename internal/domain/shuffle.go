package domain

// Shuffle permutes cards in place using Fisher-Yates. intN must return a
// uniformly distributed integer in [0, n); math/rand/v2.IntN fits.
func Shuffle(cards []Card, intN func(n int) int) {
	for i := len(cards) - 1; i > 0; i-- {
		j := intN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
