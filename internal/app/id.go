package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

func newEncodeID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "enc-unknown"
	}
	return fmt.Sprintf("enc_%s", hex.EncodeToString(b))
}
