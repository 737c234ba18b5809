package tool

import (
	"github.com/google/uuid"
)

// GenerateRequestID returns the id attached to each request's log lines.
func GenerateRequestID() string {
	return uuid.NewString()[:8]
}
