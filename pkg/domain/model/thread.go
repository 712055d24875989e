package model

import (
	"time"
	"unicode/utf8"

	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

const threadTitleMaxLen = 48

// Thread represents a conversation thread. A thread is created lazily on
// the first turn of a conversation and is never hard-deleted; archival is
// a flag.
type Thread struct {
	ID            types.ThreadID
	UserID        types.UserID
	BusinessID    types.BusinessID
	Title         string
	Intent        types.Intent // intent that originated the thread
	Module        string       // dashboard module tag (e.g. "chat", "jobs")
	Pinned        bool
	Archived      bool
	LastExcerpt   string
	LastMessageAt time.Time
	CreatedAt     time.Time
}

// NewThread creates a thread titled from a truncated prefix of the first
// message.
func NewThread(userID types.UserID, businessID types.BusinessID, intent types.Intent, firstMessage string) *Thread {
	return &Thread{
		ID:         types.NewThreadID(),
		UserID:     userID,
		BusinessID: businessID,
		Title:      TruncateRunes(firstMessage, threadTitleMaxLen),
		Intent:     intent,
		Module:     "chat",
	}
}

// Touch updates the last-message excerpt and timestamp
func (t *Thread) Touch(excerpt string, at time.Time) {
	t.LastExcerpt = TruncateRunes(excerpt, 120)
	t.LastMessageAt = at
}

// TruncateRunes cuts s to at most n runes, appending an ellipsis when
// content was dropped.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
