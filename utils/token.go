package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateToken returns a random 32 character hex token for activation and
// password reset links.
func GenerateToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
