package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD-"

// NewOrderNumber returns "ORD-YYYYMMDD-" followed by 16 hex digits of a
// random v4 UUID. Collisions are still caught by the unique index.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16]
	return orderNumberPrefix + now.UTC().Format("20060102") + "-" + suffix
}
