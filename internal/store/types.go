package store

// Sender identifies which side of a conversation wrote a message.
const (
	SenderUser   = "user"
	SenderFriend = "friend"
)

// Message kinds.
const (
	KindText  = "text"
	KindImage = "image"
)

// Presence statuses. Fabricated at add time and never updated; there is
// no real peer to report presence.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Account is the current user's identity record. There is at most one
// per profile; it exists between login and logout.
type Account struct {
	ID       string
	Username string
	Email    string
	Bio      string
	Avatar   string
	JoinDate int64
}

// Friend is a member of the friend list.
type Friend struct {
	ID        string
	Username  string
	Status    string
	Avatar    string
	AddedDate int64

	// Derived on list queries; not columns of the friends table.
	LastMessage string
	UnreadCount int
}

// Message is one entry of a conversation. Exactly one of Body or
// ImageRef is populated, determined by Kind.
type Message struct {
	ID        int64
	FriendID  string
	Sender    string
	Kind      string
	Body      string
	ImageRef  string
	Timestamp int64
	Read      bool
}
