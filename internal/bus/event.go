package bus

import "time"

// Event kinds published by the core components. Subscribers filter by
// namespace prefix, e.g. "message." receives every message event.
const (
	KindUserLoggedIn    = "user.logged_in"
	KindUserLoggedOut   = "user.logged_out"
	KindProfileUpdated  = "user.profile_updated"
	KindFriendAdded     = "friend.added"
	KindMessageAppended = "message.appended"
	KindMessageRead     = "message.read"
	KindTyping          = "responder.typing"
	KindCallStateChange = "call.state_changed"
	KindCallTick        = "call.tick"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
