package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 9
)

// NewID returns a random 9-character base36 identifier.
func NewID() string {
	max := big.NewInt(int64(len(idAlphabet)))
	buf := make([]byte, idLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("id generation: %v", err))
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return string(buf)
}
