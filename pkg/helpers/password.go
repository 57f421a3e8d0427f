package helpers

import "golang.org/x/crypto/bcrypt"

// bcrypt cost for stored credentials. DefaultCost keeps login latency
// acceptable on the small instances this runs on.
const passwordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt digest for a plaintext password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt digest.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
