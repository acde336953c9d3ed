package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GetResponseTime formats the time elapsed since init in milliseconds
func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// NewID returns prefix followed by a random UUID without dashes.
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ShortToken returns n upper-cased hex characters from a random UUID (n <= 32).
func ShortToken(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(raw) {
		n = len(raw)
	}
	return strings.ToUpper(raw[:n])
}
