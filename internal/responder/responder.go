// Package responder simulates the remote party. Every user-originated
// send schedules one deferred reply into the same conversation; there is
// no coalescing, so rapid sends produce overlapping timers and each gets
// its own reply.
package responder

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/store"
)

// Reply delays measured from the trigger call.
const (
	TextReplyDelay  = 2 * time.Second
	ImageReplyDelay = 1500 * time.Millisecond
)

// phrases is the canned reply pool, picked from uniformly when no
// override is supplied.
var phrases = []string{
	"That's awesome! 🌟",
	"I totally agree with you!",
	"Haha, you're so funny! 😄",
	"Tell me more about that!",
	"That sounds amazing! ✨",
	"I love exploring the cosmos with you! 🚀",
	"Wow, that's incredible!",
	"Thanks for sharing that! 💫",
	"You always have the best ideas! 🌌",
}

// TypingEvent is the payload of responder.typing events. Typing is
// asserted for the whole delay and cleared immediately before the reply
// is appended.
type TypingEvent struct {
	FriendID string
	Typing   bool
}

// Responder appends simulated friend replies after a delay. Timers run
// on an injected clock so tests can drive them deterministically.
type Responder struct {
	db     *store.DB
	bus    *bus.Bus
	clock  clock.Clock
	logger *zap.Logger

	mu      sync.Mutex
	timers  map[int]*clock.Timer
	next    int
	stopped bool
}

// New creates a responder.
func New(db *store.DB, b *bus.Bus, clk clock.Clock, logger *zap.Logger) *Responder {
	return &Responder{
		db:     db,
		bus:    b,
		clock:  clk,
		logger: logger,
		timers: make(map[int]*clock.Timer),
	}
}

// Trigger schedules a single deferred reply into the friend's
// conversation. Fire-and-forget: the call returns immediately and the
// reply is appended after delay. An empty override selects a random
// phrase; a non-empty one is used verbatim. A pending reply cannot be
// withdrawn.
func (r *Responder) Trigger(friendID, override string, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}

	id := r.next
	r.next++

	r.bus.Publish(bus.Event{
		Kind:    bus.KindTyping,
		Payload: TypingEvent{FriendID: friendID, Typing: true},
	})

	r.timers[id] = r.clock.AfterFunc(delay, func() {
		r.deliver(id, friendID, override)
	})
}

func (r *Responder) deliver(id int, friendID, override string) {
	r.mu.Lock()
	delete(r.timers, id)
	r.mu.Unlock()

	r.bus.Publish(bus.Event{
		Kind:    bus.KindTyping,
		Payload: TypingEvent{FriendID: friendID, Typing: false},
	})

	text := override
	if text == "" {
		text = phrases[rand.IntN(len(phrases))]
	}

	msg := &store.Message{
		FriendID:  friendID,
		Sender:    store.SenderFriend,
		Kind:      store.KindText,
		Body:      text,
		Timestamp: r.clock.Now().UnixMilli(),
		Read:      false,
	}
	if err := r.db.AppendMessage(msg); err != nil {
		r.logger.Error("failed to append auto-reply", zap.Error(err), zap.String("friend_id", friendID))
		return
	}
	r.bus.Publish(bus.Event{Kind: bus.KindMessageAppended, Payload: msg})
}

// Stop cancels all pending timers. Only used at shutdown; a running
// session never withdraws a scheduled reply.
func (r *Responder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

// Phrases returns the canned phrase pool.
func Phrases() []string {
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}
