package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/cosmoschat/cosmoschat/internal/store"
)

// MessageThread displays the active conversation.
type MessageThread struct {
	*tview.TextView
	friendName string
}

// NewMessageThread creates the conversation view.
func NewMessageThread() *MessageThread {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")

	return &MessageThread{TextView: tv}
}

// SetFriendName updates the title with the friend's name.
func (mt *MessageThread) SetFriendName(name string) {
	mt.friendName = name
	mt.SetTitle(fmt.Sprintf(" %s ", name))
}

// Update refreshes the view. Messages arrive oldest first; the typing
// flag appends an indicator line after the last message.
func (mt *MessageThread) Update(msgs []store.Message, typing bool) {
	mt.Clear()

	for _, m := range msgs {
		sender := mt.friendName
		if m.Sender == store.SenderUser {
			sender = "You"
		}

		body := m.Body
		if m.Kind == store.KindImage {
			body = "📷 " + m.ImageRef
		}

		ts := formatTimestamp(m.Timestamp)
		line := fmt.Sprintf("[::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n", sender, ts, sanitizeForTerminal(body))
		_, _ = fmt.Fprint(mt, line)
	}

	if typing {
		_, _ = fmt.Fprintf(mt, "[::d]%s is typing...[-:-:-]\n", mt.friendName)
	}

	mt.ScrollToEnd()
}
