// Package user manages the session identity record. Authentication is
// simulated: there is no server to verify against, so login always
// succeeds and signup only checks that the passwords match.
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/store"
)

// ErrPasswordMismatch is returned by Signup when the two password fields
// disagree.
var ErrPasswordMismatch = errors.New("passwords do not match")

const (
	loginBio  = "Exploring the cosmos..."
	signupBio = "New cosmic explorer!"
)

// Store owns the current session's account record.
type Store struct {
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
}

// New creates a user store backed by the profile database.
func New(db *store.DB, b *bus.Bus, logger *zap.Logger) *Store {
	return &Store{db: db, bus: b, logger: logger}
}

// Login creates a session for the given credentials. The password is not
// verified; the display name is derived from the email's local part.
func (s *Store) Login(email, password string) (*store.Account, error) {
	_ = password
	a := &store.Account{
		ID:       NewID(),
		Username: localPart(email),
		Email:    email,
		Bio:      loginBio,
		JoinDate: time.Now().UnixMilli(),
	}
	if err := s.db.SaveAccount(a); err != nil {
		return nil, err
	}
	s.logger.Info("logged in", zap.String("username", a.Username))
	s.bus.Publish(bus.Event{Kind: bus.KindUserLoggedIn, Payload: a})
	return a, nil
}

// Signup creates a session with the supplied username. Fails with
// ErrPasswordMismatch before touching persistence when the confirmation
// does not match.
func (s *Store) Signup(username, email, password, confirmPassword string) (*store.Account, error) {
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}
	a := &store.Account{
		ID:       NewID(),
		Username: username,
		Email:    email,
		Bio:      signupBio,
		JoinDate: time.Now().UnixMilli(),
	}
	if err := s.db.SaveAccount(a); err != nil {
		return nil, err
	}
	s.logger.Info("signed up", zap.String("username", a.Username))
	s.bus.Publish(bus.Event{Kind: bus.KindUserLoggedIn, Payload: a})
	return a, nil
}

// Restore loads a previously persisted session, or nil when none exists
// (the caller routes to the login flow).
func (s *Store) Restore() (*store.Account, error) {
	return s.db.GetAccount()
}

// Logout clears the session record and all dependent state: friends and
// messages go with it.
func (s *Store) Logout() error {
	if err := s.db.Wipe(); err != nil {
		return err
	}
	s.logger.Info("logged out")
	s.bus.Publish(bus.Event{Kind: bus.KindUserLoggedOut})
	return nil
}

// UpdateProfile changes the account's username and bio.
func (s *Store) UpdateProfile(username, bio string) (*store.Account, error) {
	if err := s.db.UpdateAccountProfile(username, bio); err != nil {
		return nil, err
	}
	a, err := s.db.GetAccount()
	if err != nil {
		return nil, err
	}
	s.bus.Publish(bus.Event{Kind: bus.KindProfileUpdated, Payload: a})
	return a, nil
}

// SetAvatar stores a new avatar reference.
func (s *Store) SetAvatar(ref string) error {
	if err := s.db.SetAccountAvatar(ref); err != nil {
		return err
	}
	s.bus.Publish(bus.Event{Kind: bus.KindProfileUpdated})
	return nil
}

// NewID fabricates an opaque cosmic id.
func NewID() string {
	return "cosmic_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
}

// localPart returns everything before the '@' of an email address, or
// the whole string when there is none.
func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
