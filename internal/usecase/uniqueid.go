package usecase

import "math/rand/v2"

// Identifier alphabet excludes visually confusable characters (0/O, 1/I).
// Short, prefixed, collision-resistant enough for manual operator review;
// not cryptographic and there is no collision-detection retry.
const (
	uniqueIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	uniqueIDLength   = 8
	uniqueIDPrefix   = "ET-"
)

func generateUniqueID() string {
	b := make([]byte, uniqueIDLength)
	for i := range b {
		b[i] = uniqueIDAlphabet[rand.IntN(len(uniqueIDAlphabet))]
	}
	return uniqueIDPrefix + string(b)
}
