package model

import (
	"context"
	"sync"
	"time"

	"github.com/cosmoschat/cosmoschat/internal/call"
	"github.com/cosmoschat/cosmoschat/internal/chat"
	"github.com/cosmoschat/cosmoschat/internal/friend"
	"github.com/cosmoschat/cosmoschat/internal/store"
	"github.com/cosmoschat/cosmoschat/internal/user"
)

// ViewModel caches state from the core components for rendering. All
// mutating calls go straight through; the UI redraws from the cache in
// reaction to bus events.
type ViewModel struct {
	mu sync.RWMutex

	users    *user.Store
	registry *friend.Registry
	session  *chat.Session
	calls    *call.Session

	Account     *store.Account
	Friends     []store.Friend
	Messages    []store.Message
	Typing      bool
	CallElapsed time.Duration
	Flash       Flash
}

// NewViewModel creates a view model over the client components.
func NewViewModel(users *user.Store, registry *friend.Registry, session *chat.Session, calls *call.Session) *ViewModel {
	return &ViewModel{
		users:    users,
		registry: registry,
		session:  session,
		calls:    calls,
	}
}

// Restore loads a persisted session, if any.
func (vm *ViewModel) Restore() error {
	a, err := vm.users.Restore()
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Account = a
	vm.mu.Unlock()
	return nil
}

// Login starts a session for the given credentials.
func (vm *ViewModel) Login(email, password string) error {
	a, err := vm.users.Login(email, password)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Account = a
	vm.mu.Unlock()
	return nil
}

// Signup creates a fresh account.
func (vm *ViewModel) Signup(username, email, password, confirm string) error {
	a, err := vm.users.Signup(username, email, password, confirm)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Account = a
	vm.mu.Unlock()
	return nil
}

// Logout ends the session and drops all local state.
func (vm *ViewModel) Logout() error {
	vm.session.Close()
	if err := vm.users.Logout(); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Account = nil
	vm.Friends = nil
	vm.Messages = nil
	vm.mu.Unlock()
	return nil
}

// UpdateProfile changes username and bio.
func (vm *ViewModel) UpdateProfile(username, bio string) error {
	a, err := vm.users.UpdateProfile(username, bio)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Account = a
	vm.mu.Unlock()
	return nil
}

// SetAvatar stores a new avatar reference and refreshes the cached
// account.
func (vm *ViewModel) SetAvatar(ref string) error {
	if err := vm.users.SetAvatar(ref); err != nil {
		return err
	}
	a, err := vm.users.Restore()
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Account = a
	vm.mu.Unlock()
	return nil
}

// LoadFriends refreshes the friend list with previews and unread counts.
func (vm *ViewModel) LoadFriends() error {
	friends, err := vm.registry.List()
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Friends = friends
	vm.mu.Unlock()
	return nil
}

// AddFriend adds a friend by username or cosmic id and reloads the list.
func (vm *ViewModel) AddFriend(identifier string) error {
	if _, err := vm.registry.Add(identifier); err != nil {
		return err
	}
	return vm.LoadFriends()
}

// OpenChat opens a conversation and caches its history.
func (vm *ViewModel) OpenChat(friendID string) error {
	msgs, err := vm.session.Open(friendID)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Messages = msgs
	vm.Typing = false
	vm.mu.Unlock()
	return nil
}

// CloseChat leaves the conversation.
func (vm *ViewModel) CloseChat() {
	vm.session.Close()
	vm.mu.Lock()
	vm.Messages = nil
	vm.Typing = false
	vm.mu.Unlock()
}

// ReloadMessages re-reads the active conversation's history.
func (vm *ViewModel) ReloadMessages() error {
	msgs, err := vm.session.Messages()
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Messages = msgs
	vm.mu.Unlock()
	return nil
}

// SendText sends a text message in the active conversation.
func (vm *ViewModel) SendText(text string) error {
	if _, err := vm.session.SendText(text); err != nil {
		return err
	}
	return vm.ReloadMessages()
}

// SendImage sends an image reference in the active conversation.
func (vm *ViewModel) SendImage(ref string) error {
	if _, err := vm.session.SendImage(ref); err != nil {
		return err
	}
	return vm.ReloadMessages()
}

// SetTyping records the friend's typing indicator state.
func (vm *ViewModel) SetTyping(typing bool) {
	vm.mu.Lock()
	vm.Typing = typing
	vm.mu.Unlock()
}

// StartCall requests media and starts the call.
func (vm *ViewModel) StartCall(ctx context.Context) error {
	return vm.calls.StartVideo(ctx)
}

// EndCall hangs up.
func (vm *ViewModel) EndCall() {
	vm.calls.End()
	vm.mu.Lock()
	vm.CallElapsed = 0
	vm.mu.Unlock()
}

// SetCallElapsed records the latest call duration tick.
func (vm *ViewModel) SetCallElapsed(d time.Duration) {
	vm.mu.Lock()
	vm.CallElapsed = d
	vm.mu.Unlock()
}

// ActiveFriend returns the friend of the open conversation, or nil.
func (vm *ViewModel) ActiveFriend() *store.Friend {
	return vm.session.Active()
}

// CallState returns the current call state.
func (vm *ViewModel) CallState() call.State {
	return vm.calls.State()
}

// CallMuted reports whether the microphone is muted.
func (vm *ViewModel) CallMuted() bool { return vm.calls.Muted() }

// CallVideoOff reports whether the camera is disabled.
func (vm *ViewModel) CallVideoOff() bool { return vm.calls.VideoOff() }

// ToggleMute flips the microphone.
func (vm *ViewModel) ToggleMute() {
	vm.calls.ToggleMute()
}

// ToggleVideo flips the camera.
func (vm *ViewModel) ToggleVideo() {
	vm.calls.ToggleVideo()
}

// GetAccount returns a snapshot of the current account.
func (vm *ViewModel) GetAccount() *store.Account {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Account
}

// GetFriends returns a snapshot of the friend list.
func (vm *ViewModel) GetFriends() []store.Friend {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Friends
}

// GetMessages returns a snapshot of the active conversation.
func (vm *ViewModel) GetMessages() []store.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Messages
}

// GetTyping returns the typing indicator state.
func (vm *ViewModel) GetTyping() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Typing
}

// GetCallElapsed returns the cached call duration.
func (vm *ViewModel) GetCallElapsed() time.Duration {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.CallElapsed
}
