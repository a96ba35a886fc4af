package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// Record is the internal representation shared by both wire contracts.
// Wire field names (gmail/email, phone/mobile) are applied per variant
// at the handler layer, never here.
type Record struct {
	ID        string
	Contact   string
	Name      string
	Phone     string
	Password  string
	CreatedAt string
}

// CreateInput carries everything a caller supplies on create.
// ID and CreatedAt are assigned by the store.
type CreateInput struct {
	Contact  string
	Password string
	Name     string
	Phone    string
}

const timestampLayout = "2006-01-02T15:04:05.000000"

// Timestamp renders t the way stored created_at values look:
// ISO-8601 with microseconds and a literal trailing Z.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout) + "Z"
}
