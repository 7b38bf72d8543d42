package responder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/store"
)

func testResponder(t *testing.T) (*Responder, *store.DB, *bus.Bus, *clock.Mock) {
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

	if err := db.InsertFriend(&store.Friend{ID: "cosmic_n1", Username: "Nova", Status: store.StatusOnline, AddedDate: 1}); err != nil {
		t.Fatal(err)
	}

	b := bus.New()
	mock := clock.NewMock()
	r := New(db, b, mock, zap.NewNop())
	t.Cleanup(r.Stop)
	return r, db, b, mock
}

func TestReplyArrivesAfterDelayNotBefore(t *testing.T) {
	r, db, _, mock := testResponder(t)

	r.Trigger("cosmic_n1", "", TextReplyDelay)

	// Just shy of the delay: nothing yet.
	mock.Add(TextReplyDelay - time.Millisecond)
	msgs, err := db.ListMessages("cosmic_n1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Fatalf("got %d messages before delay elapsed, want 0", len(msgs))
	}

	mock.Add(time.Millisecond)
	msgs, err = db.ListMessages("cosmic_n1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages after delay, want 1", len(msgs))
	}
	m := msgs[0]
	if m.Sender != store.SenderFriend || m.Kind != store.KindText || m.Read {
		t.Errorf("reply = %+v, want unread friend text", m)
	}
	if m.Body == "" {
		t.Error("reply body is empty")
	}
}

func TestReplyTimestampIsAppendTime(t *testing.T) {
	r, db, _, mock := testResponder(t)

	triggeredAt := mock.Now().UnixMilli()
	r.Trigger("cosmic_n1", "", TextReplyDelay)
	mock.Add(TextReplyDelay)

	msgs, _ := db.ListMessages("cosmic_n1")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	want := triggeredAt + TextReplyDelay.Milliseconds()
	if msgs[0].Timestamp != want {
		t.Errorf("timestamp = %d, want %d (time of append, not trigger)", msgs[0].Timestamp, want)
	}
}

func TestOverrideTextUsedVerbatim(t *testing.T) {
	r, db, _, mock := testResponder(t)

	r.Trigger("cosmic_n1", "Nice photo! 📸✨", ImageReplyDelay)
	mock.Add(ImageReplyDelay)

	msgs, _ := db.ListMessages("cosmic_n1")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Body != "Nice photo! 📸✨" {
		t.Errorf("body = %q, want the override verbatim", msgs[0].Body)
	}
}

func TestRandomReplyComesFromPool(t *testing.T) {
	r, db, _, mock := testResponder(t)

	r.Trigger("cosmic_n1", "", TextReplyDelay)
	mock.Add(TextReplyDelay)

	msgs, _ := db.ListMessages("cosmic_n1")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	found := false
	for _, p := range Phrases() {
		if msgs[0].Body == p {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("reply %q not in phrase pool", msgs[0].Body)
	}
}

// Rapid triggers are independent: each keeps its own timer and each
// produces its own reply.
func TestOverlappingTriggers(t *testing.T) {
	r, db, _, mock := testResponder(t)

	r.Trigger("cosmic_n1", "", TextReplyDelay)
	mock.Add(500 * time.Millisecond)
	r.Trigger("cosmic_n1", "", TextReplyDelay)

	// First reply due 1500ms from now, second 500ms later.
	mock.Add(1500 * time.Millisecond)
	msgs, _ := db.ListMessages("cosmic_n1")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages after first delay, want 1", len(msgs))
	}

	mock.Add(500 * time.Millisecond)
	msgs, _ = db.ListMessages("cosmic_n1")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages after second delay, want 2", len(msgs))
	}
}

func TestTypingIndicatorBracketsReply(t *testing.T) {
	r, _, b, mock := testResponder(t)
	ch, unsub := b.Subscribe("responder.", 10)
	defer unsub()

	r.Trigger("cosmic_n1", "", TextReplyDelay)

	evt := <-ch
	te, ok := evt.Payload.(TypingEvent)
	if !ok || !te.Typing || te.FriendID != "cosmic_n1" {
		t.Fatalf("first event = %+v, want typing=true for cosmic_n1", evt.Payload)
	}

	mock.Add(TextReplyDelay)

	evt = <-ch
	te, ok = evt.Payload.(TypingEvent)
	if !ok || te.Typing {
		t.Fatalf("second event = %+v, want typing=false", evt.Payload)
	}
}

func TestAppendedEventPublished(t *testing.T) {
	r, _, b, mock := testResponder(t)
	ch, unsub := b.Subscribe("message.", 10)
	defer unsub()

	r.Trigger("cosmic_n1", "", TextReplyDelay)
	mock.Add(TextReplyDelay)

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindMessageAppended {
			t.Errorf("kind = %q, want %q", evt.Kind, bus.KindMessageAppended)
		}
		msg, ok := evt.Payload.(*store.Message)
		if !ok || msg.Sender != store.SenderFriend {
			t.Errorf("payload = %+v, want friend message", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message.appended")
	}
}

func TestStopCancelsPendingTimers(t *testing.T) {
	r, db, _, mock := testResponder(t)

	r.Trigger("cosmic_n1", "", TextReplyDelay)
	r.Stop()
	mock.Add(TextReplyDelay)

	msgs, _ := db.ListMessages("cosmic_n1")
	if len(msgs) != 0 {
		t.Errorf("got %d messages after Stop, want 0", len(msgs))
	}

	// Trigger after Stop is a no-op.
	r.Trigger("cosmic_n1", "", TextReplyDelay)
	mock.Add(TextReplyDelay)
	msgs, _ = db.ListMessages("cosmic_n1")
	if len(msgs) != 0 {
		t.Errorf("got %d messages after post-Stop trigger, want 0", len(msgs))
	}
}
