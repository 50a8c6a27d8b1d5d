package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ==================== UNLOCK CODE ====================

const (
	unlockCodeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	MinUnlockCodeLength = 8
)

// GenerateUnlockCode returns length uppercase alphanumerics drawn from crypto/rand.
// Lengths below MinUnlockCodeLength are raised to it.
func GenerateUnlockCode(length int) (string, error) {
	if length < MinUnlockCodeLength {
		length = MinUnlockCodeLength
	}

	alphabetSize := big.NewInt(int64(len(unlockCodeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate unlock code: %w", err)
		}
		code[i] = unlockCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}

// IsUnlockCode reports whether code has the shape produced by GenerateUnlockCode.
func IsUnlockCode(code string) bool {
	if len(code) < MinUnlockCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
