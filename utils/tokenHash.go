package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
)

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func TokenHash(token string) []byte {
	h := sha256.New()
	h.Write([]byte(token))
	return h.Sum(nil)
}

// GenerateRandomString returns a cryptographically random alphanumeric string
func GenerateRandomString(n int) (string, error) {
	max := big.NewInt(int64(len(randomAlphabet)))
	ret := make([]byte, n)
	for i := range ret {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		ret[i] = randomAlphabet[num.Int64()]
	}
	return string(ret), nil
}
