package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Recovery secret generators. Both draw from crypto/rand; the token variant
// carries 256 bits of entropy, the code variant is constrained to the six
// digit range the mobile client can render in an SMS-style input.

const (
	resetTokenBytes = 32
	codeMin         = 100000
	codeMax         = 999999
)

// GenResetToken returns an opaque URL-safe token for deep-link resets.
func GenResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenResetCode returns a numeric code in [100000, 999999]. Uses uniform
// sampling so no code is more likely than another.
func GenResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", codeMin+n.Int64()), nil
}
