package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID identifies a platform user
type UserID string

// Validate checks if the UserID is valid
func (id UserID) Validate() error {
	if id == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

func (id UserID) String() string { return string(id) }

// BusinessID identifies a tenant business
type BusinessID string

func (id BusinessID) String() string { return string(id) }

// ThreadID is a UUID-based identifier for a conversation thread
type ThreadID string

// NewThreadID generates a new UUIDv7 ThreadID
func NewThreadID() ThreadID {
	return ThreadID(uuid.Must(uuid.NewV7()).String())
}

func (id ThreadID) String() string { return string(id) }

// MessageID is a UUID-based identifier for a message
type MessageID string

// NewMessageID generates a new UUIDv7 MessageID
func NewMessageID() MessageID {
	return MessageID(uuid.Must(uuid.NewV7()).String())
}

func (id MessageID) String() string { return string(id) }

// MemoryID is a UUID-based identifier for a memory record
type MemoryID string

// NewMemoryID generates a new UUID v4 MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

func (id MemoryID) String() string { return string(id) }

// MonthKey is a calendar month key in "2006-01" form, used to partition
// usage counters.
type MonthKey string

// MonthOf returns the MonthKey for the given time in UTC
func MonthOf(t time.Time) MonthKey {
	return MonthKey(t.UTC().Format("2006-01"))
}

func (m MonthKey) String() string { return string(m) }
