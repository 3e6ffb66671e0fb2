package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// inviteCodeAlphabet excludes nothing: codes are matched case-insensitively
// and shown uppercase, so plain A-Z0-9 keeps them easy to read out loud.
const inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const InviteCodeLength = 6

// GenerateInviteCode returns a random 6-character uppercase alphanumeric
// group code. Each character is drawn with rand.Int so no letter is favored.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	alphabetSize := big.NewInt(int64(len(inviteCodeAlphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)

		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}

		buf[i] = inviteCodeAlphabet[n.Int64()]
	}

	return string(buf), nil
}
