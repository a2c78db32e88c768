package repository

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var seedNamespace = uuid.MustParse("6f1c2a44-8d0e-4b7a-9c53-2e1d7f0a9b61")

// seedID derives a stable ID for seeded records so links survive restarts.
func seedID(kind, key string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key)).String()
}

// shortID returns the first 8 hex characters of a UUID.
func shortID(id string) string {
	return strings.ReplaceAll(id, "-", "")[:8]
}

// messageID returns a time-sortable ID for chat messages.
func messageID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
