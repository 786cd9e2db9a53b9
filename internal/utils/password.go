package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes plain at cost. The hash-password command prints
// its result for ADMIN_PASSWORD_HASH.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the admin hash. Malformed or
// empty hashes never match.
func VerifyPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
