// Package chat mediates between the active conversation and the message
// log, and drives the responder on every user-originated send.
package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/friend"
	"github.com/cosmoschat/cosmoschat/internal/responder"
	"github.com/cosmoschat/cosmoschat/internal/store"
)

var (
	// ErrUnknownFriend is returned by Open for an id with no friend record.
	ErrUnknownFriend = errors.New("no such friend")
	// ErrEmptyMessage is returned by the send operations for blank
	// content or when no conversation is open.
	ErrEmptyMessage = errors.New("nothing to send")
)

// imageReply is the fixed auto-reply to any image.
const imageReply = "Nice photo! 📸✨"

// Session is the active conversation context.
type Session struct {
	db        *store.DB
	registry  *friend.Registry
	responder *responder.Responder
	bus       *bus.Bus
	clock     clock.Clock
	logger    *zap.Logger

	textDelay  time.Duration
	imageDelay time.Duration

	mu     sync.Mutex
	active *store.Friend
}

// New creates a chat session. Zero delays select the responder defaults.
func New(db *store.DB, reg *friend.Registry, resp *responder.Responder, b *bus.Bus, clk clock.Clock, logger *zap.Logger, textDelay, imageDelay time.Duration) *Session {
	if textDelay <= 0 {
		textDelay = responder.TextReplyDelay
	}
	if imageDelay <= 0 {
		imageDelay = responder.ImageReplyDelay
	}
	return &Session{
		db:         db,
		registry:   reg,
		responder:  resp,
		bus:        b,
		clock:      clk,
		logger:     logger,
		textDelay:  textDelay,
		imageDelay: imageDelay,
	}
}

// Open makes friendID the active conversation, marks its friend-sent
// messages read, and returns the message history.
func (s *Session) Open(friendID string) ([]store.Message, error) {
	f, err := s.registry.Find(friendID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrUnknownFriend
	}

	s.mu.Lock()
	s.active = f
	s.mu.Unlock()

	if err := s.db.MarkFriendMessagesRead(f.ID); err != nil {
		return nil, err
	}
	s.bus.Publish(bus.Event{Kind: bus.KindMessageRead, Payload: f.ID})
	s.logger.Info("conversation opened", zap.String("friend_id", f.ID))

	return s.db.ListMessages(f.ID)
}

// Active returns the currently open friend, or nil.
func (s *Session) Active() *store.Friend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Messages returns the active conversation's history. Empty when no
// conversation is open.
func (s *Session) Messages() ([]store.Message, error) {
	f := s.Active()
	if f == nil {
		return nil, nil
	}
	return s.db.ListMessages(f.ID)
}

// SendText appends a user text message to the active conversation and
// triggers a deferred auto-reply. The user's own message is stored read.
func (s *Session) SendText(text string) (*store.Message, error) {
	text = strings.TrimSpace(text)
	f := s.Active()
	if text == "" || f == nil {
		return nil, ErrEmptyMessage
	}

	msg := &store.Message{
		FriendID:  f.ID,
		Sender:    store.SenderUser,
		Kind:      store.KindText,
		Body:      text,
		Timestamp: s.clock.Now().UnixMilli(),
		Read:      true,
	}
	if err := s.db.AppendMessage(msg); err != nil {
		return nil, err
	}
	s.bus.Publish(bus.Event{Kind: bus.KindMessageAppended, Payload: msg})

	// The send is persisted before the reply is scheduled; the reply may
	// still interleave with later sends.
	s.responder.Trigger(f.ID, "", s.textDelay)
	return msg, nil
}

// SendImage appends a user image message and triggers the fixed photo
// compliment at the shorter image delay.
func (s *Session) SendImage(imageRef string) (*store.Message, error) {
	imageRef = strings.TrimSpace(imageRef)
	f := s.Active()
	if imageRef == "" || f == nil {
		return nil, ErrEmptyMessage
	}

	msg := &store.Message{
		FriendID:  f.ID,
		Sender:    store.SenderUser,
		Kind:      store.KindImage,
		ImageRef:  imageRef,
		Timestamp: s.clock.Now().UnixMilli(),
		Read:      true,
	}
	if err := s.db.AppendMessage(msg); err != nil {
		return nil, err
	}
	s.bus.Publish(bus.Event{Kind: bus.KindMessageAppended, Payload: msg})

	s.responder.Trigger(f.ID, imageReply, s.imageDelay)
	return msg, nil
}

// Close clears the active conversation. No other side effect.
func (s *Session) Close() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}
