package chat

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/friend"
	"github.com/cosmoschat/cosmoschat/internal/responder"
	"github.com/cosmoschat/cosmoschat/internal/store"
)

type fixture struct {
	session *Session
	db      *store.DB
	bus     *bus.Bus
	clock   *clock.Mock
	nova    *store.Friend
}

func setup(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	b := bus.New()
	mock := clock.NewMock()
	logger := zap.NewNop()
	reg := friend.New(db, b, logger)
	resp := responder.New(db, b, mock, logger)
	t.Cleanup(resp.Stop)

	nova, err := reg.Add("Nova")
	if err != nil {
		t.Fatal(err)
	}

	return &fixture{
		session: New(db, reg, resp, b, mock, logger, 0, 0),
		db:      db,
		bus:     b,
		clock:   mock,
		nova:    nova,
	}
}

func TestOpenUnknownFriend(t *testing.T) {
	fx := setup(t)

	_, err := fx.session.Open("cosmic_nobody")
	if !errors.Is(err, ErrUnknownFriend) {
		t.Errorf("error = %v, want ErrUnknownFriend", err)
	}
	if fx.session.Active() != nil {
		t.Error("active conversation set after failed Open")
	}
}

func TestOpenClearsUnread(t *testing.T) {
	fx := setup(t)

	for i := 0; i < 3; i++ {
		if err := fx.db.AppendMessage(&store.Message{FriendID: fx.nova.ID, Sender: store.SenderFriend, Kind: store.KindText, Body: "hi", Timestamp: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	n, _ := fx.db.UnreadCount(fx.nova.ID)
	if n != 3 {
		t.Fatalf("unread before open = %d, want 3", n)
	}

	msgs, err := fx.session.Open(fx.nova.ID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(msgs) != 3 {
		t.Errorf("got %d messages, want 3", len(msgs))
	}
	n, _ = fx.db.UnreadCount(fx.nova.ID)
	if n != 0 {
		t.Errorf("unread after open = %d, want 0", n)
	}
}

func TestSendTextValidation(t *testing.T) {
	fx := setup(t)

	// No conversation open.
	if _, err := fx.session.SendText("hello"); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("no open conversation: error = %v, want ErrEmptyMessage", err)
	}

	if _, err := fx.session.Open(fx.nova.ID); err != nil {
		t.Fatal(err)
	}
	// Blank after trimming.
	if _, err := fx.session.SendText("   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("blank text: error = %v, want ErrEmptyMessage", err)
	}
}

func TestSendTextAppendsAndSchedulesReply(t *testing.T) {
	fx := setup(t)

	if _, err := fx.session.Open(fx.nova.ID); err != nil {
		t.Fatal(err)
	}
	sent, err := fx.session.SendText("Hello")
	if err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if sent.Sender != store.SenderUser || sent.Kind != store.KindText || sent.Body != "Hello" || !sent.Read {
		t.Errorf("sent = %+v, want read user text 'Hello'", sent)
	}

	// The user message is persisted immediately; no reply yet.
	msgs, _ := fx.db.ListMessages(fx.nova.ID)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages before delay, want 1", len(msgs))
	}

	fx.clock.Add(responder.TextReplyDelay)

	msgs, _ = fx.db.ListMessages(fx.nova.ID)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages after delay, want 2", len(msgs))
	}
	reply := msgs[1]
	if reply.Sender != store.SenderFriend || reply.Kind != store.KindText || reply.Read {
		t.Errorf("reply = %+v, want unread friend text", reply)
	}
}

func TestSendImageTriggersFixedReply(t *testing.T) {
	fx := setup(t)

	if _, err := fx.session.Open(fx.nova.ID); err != nil {
		t.Fatal(err)
	}
	sent, err := fx.session.SendImage("img:42")
	if err != nil {
		t.Fatalf("SendImage() error = %v", err)
	}
	if sent.Kind != store.KindImage || sent.ImageRef != "img:42" || sent.Body != "" {
		t.Errorf("sent = %+v, want image record with empty body", sent)
	}

	fx.clock.Add(responder.ImageReplyDelay)

	msgs, _ := fx.db.ListMessages(fx.nova.ID)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[1].Body != "Nice photo! 📸✨" {
		t.Errorf("reply = %q, want the fixed photo compliment", msgs[1].Body)
	}
}

func TestUnreadCountsOnlyFriendMessages(t *testing.T) {
	fx := setup(t)

	if _, err := fx.session.Open(fx.nova.ID); err != nil {
		t.Fatal(err)
	}
	// M=4 user sends, each scheduling a reply; let N=2 of them land.
	for i := 0; i < 2; i++ {
		if _, err := fx.session.SendText("hi"); err != nil {
			t.Fatal(err)
		}
	}
	fx.clock.Add(responder.TextReplyDelay)
	for i := 0; i < 2; i++ {
		if _, err := fx.session.SendText("hi again"); err != nil {
			t.Fatal(err)
		}
	}

	n, _ := fx.db.UnreadCount(fx.nova.ID)
	if n != 2 {
		t.Errorf("unread = %d, want 2 (only landed friend replies)", n)
	}
}

func TestCloseClearsActive(t *testing.T) {
	fx := setup(t)

	if _, err := fx.session.Open(fx.nova.ID); err != nil {
		t.Fatal(err)
	}
	fx.session.Close()
	if fx.session.Active() != nil {
		t.Error("Active() non-nil after Close")
	}
	if _, err := fx.session.SendText("hello"); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("send after Close: error = %v, want ErrEmptyMessage", err)
	}
}

// Full scenario from the dashboard's point of view: add a friend, chat,
// let the reply land, and reopen to clear the badge.
func TestConversationScenario(t *testing.T) {
	fx := setup(t)

	if _, err := fx.session.Open(fx.nova.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.session.SendText("hi"); err != nil {
		t.Fatal(err)
	}

	fx.clock.Add(2 * time.Second)

	msgs, _ := fx.db.ListMessages(fx.nova.ID)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want user send + one auto-reply", len(msgs))
	}
	n, _ := fx.db.UnreadCount(fx.nova.ID)
	if n != 1 {
		t.Fatalf("unread = %d, want 1 until reopened", n)
	}

	if _, err := fx.session.Open(fx.nova.ID); err != nil {
		t.Fatal(err)
	}
	n, _ = fx.db.UnreadCount(fx.nova.ID)
	if n != 0 {
		t.Errorf("unread after reopen = %d, want 0", n)
	}
}
