// Package friend manages the ordered friend list. Friends are fabricated
// locally: there is no directory to look identifiers up in, so adding
// one invents the record, presence included.
package friend

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/store"
	"github.com/cosmoschat/cosmoschat/internal/user"
)

var (
	// ErrDuplicateFriend is returned when the identifier matches an
	// existing friend's id or username.
	ErrDuplicateFriend = errors.New("already friends with this explorer")
	// ErrSelfAdd is returned when the identifier matches the current
	// user's id or username.
	ErrSelfAdd = errors.New("cannot add yourself as a friend")
)

// idPrefix marks identifiers that are cosmic ids rather than usernames.
const idPrefix = "cosmic_"

// Registry owns the friend list.
type Registry struct {
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
}

// New creates a friend registry backed by the profile database.
func New(db *store.DB, b *bus.Bus, logger *zap.Logger) *Registry {
	return &Registry{db: db, bus: b, logger: logger}
}

// Add fabricates a friend record for the identifier and appends it.
// Identifiers with the cosmic id prefix are kept as the friend's id and
// get a derived display name; anything else is treated as a username
// with a fresh id. Presence is chosen at random and never updated.
func (r *Registry) Add(identifier string) (*store.Friend, error) {
	identifier = strings.TrimSpace(identifier)

	existing, err := r.db.FindFriend(identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateFriend
	}

	account, err := r.db.GetAccount()
	if err != nil {
		return nil, err
	}
	if account != nil && (identifier == account.ID || identifier == account.Username) {
		return nil, ErrSelfAdd
	}

	f := &store.Friend{
		Status:    randomStatus(),
		AddedDate: time.Now().UnixMilli(),
	}
	if strings.HasPrefix(identifier, idPrefix) {
		f.ID = identifier
		f.Username = "User_" + identifier[len(identifier)-4:]
	} else {
		f.ID = user.NewID()
		f.Username = identifier
	}

	if err := r.db.InsertFriend(f); err != nil {
		return nil, err
	}
	r.logger.Info("friend added", zap.String("id", f.ID), zap.String("username", f.Username))
	r.bus.Publish(bus.Event{Kind: bus.KindFriendAdded, Payload: f})
	return f, nil
}

// List returns all friends in insertion order, with last-message
// previews and unread counts filled in.
func (r *Registry) List() ([]store.Friend, error) {
	return r.db.ListFriends()
}

// Find returns the friend matching the id or username, or nil.
func (r *Registry) Find(idOrUsername string) (*store.Friend, error) {
	return r.db.FindFriend(idOrUsername)
}

func randomStatus() string {
	if rand.IntN(2) == 0 {
		return store.StatusOnline
	}
	return store.StatusOffline
}
