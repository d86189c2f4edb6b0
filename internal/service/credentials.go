package service

import (
	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher wraps bcrypt for both account passwords and car PINs.
// Verification is constant-time inside bcrypt; raw secrets and hashes are
// never logged.
type CredentialHasher struct {
	cost int
}

func NewCredentialHasher() *CredentialHasher {
	return &CredentialHasher{cost: bcrypt.DefaultCost}
}

func (h *CredentialHasher) Hash(secret string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *CredentialHasher) Verify(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// ValidPIN reports whether pin is 4 to 6 ASCII digits.
func ValidPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 6 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
