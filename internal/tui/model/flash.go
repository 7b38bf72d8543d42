package model

import (
	"sync"
	"time"
)

// Level classifies a flash message. Recoverable errors (password
// mismatch, duplicate friend, empty message, media denial, ...) render
// differently from informational notices.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Flash holds one transient notification at a time. A new message
// replaces the current one regardless of level.
type Flash struct {
	mu      sync.RWMutex
	message string
	level   Level
	expires time.Time
}

// Set stores a flash message that expires after the given duration.
func (f *Flash) Set(msg string, level Level, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = msg
	f.level = level
	f.expires = time.Now().Add(d)
}

// Get returns the current flash message and its level, or empty if
// expired.
func (f *Flash) Get() (string, Level) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if time.Now().After(f.expires) {
		return "", LevelInfo
	}
	return f.message, f.level
}
