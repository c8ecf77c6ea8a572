package testutil

import (
	"strings"

	"github.com/google/uuid"
)

// RandomUsername returns a unique username with the given prefix.
func RandomUsername(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return prefix + "-" + suffix
}

// RandomEmail returns a unique email address.
func RandomEmail() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return "user-" + suffix + "@example.com"
}
