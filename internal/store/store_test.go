package store

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func addFriend(t *testing.T, db *DB, id, username string) {
	t.Helper()
	if err := db.InsertFriend(&Friend{ID: id, Username: username, Status: StatusOnline, AddedDate: 1000}); err != nil {
		t.Fatal(err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 2 {
		t.Errorf("version = %d, want 2 (init + indexes)", result.Version)
	}
}

func TestAccountSaveGetWipe(t *testing.T) {
	db := testDB(t)

	a, err := db.GetAccount()
	if err != nil {
		t.Fatal(err)
	}
	if a != nil {
		t.Fatalf("fresh db GetAccount() = %+v, want nil", a)
	}

	if err := db.SaveAccount(&Account{ID: "cosmic_abc", Username: "nova", Email: "nova@example.com", Bio: "hi", JoinDate: 1000}); err != nil {
		t.Fatal(err)
	}
	a, err = db.GetAccount()
	if err != nil {
		t.Fatal(err)
	}
	if a == nil || a.Username != "nova" || a.ID != "cosmic_abc" {
		t.Errorf("got %+v, want nova/cosmic_abc", a)
	}

	// Save replaces; the table never holds two rows.
	if err := db.SaveAccount(&Account{ID: "cosmic_def", Username: "vega", Email: "vega@example.com", JoinDate: 2000}); err != nil {
		t.Fatal(err)
	}
	a, _ = db.GetAccount()
	if a.ID != "cosmic_def" {
		t.Errorf("id = %q, want cosmic_def after replace", a.ID)
	}

	if err := db.Wipe(); err != nil {
		t.Fatal(err)
	}
	a, err = db.GetAccount()
	if err != nil {
		t.Fatal(err)
	}
	if a != nil {
		t.Errorf("GetAccount() after Wipe = %+v, want nil", a)
	}
}

func TestUpdateAccountProfile(t *testing.T) {
	db := testDB(t)

	if err := db.SaveAccount(&Account{ID: "cosmic_abc", Username: "nova", Email: "nova@example.com", JoinDate: 1000}); err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateAccountProfile("supernova", "Exploring deeper space"); err != nil {
		t.Fatal(err)
	}
	a, _ := db.GetAccount()
	if a.Username != "supernova" || a.Bio != "Exploring deeper space" {
		t.Errorf("got %q/%q, want supernova/Exploring deeper space", a.Username, a.Bio)
	}
}

func TestFriendInsertListFind(t *testing.T) {
	db := testDB(t)

	addFriend(t, db, "cosmic_n1", "Nova")
	addFriend(t, db, "cosmic_v1", "Vega")

	friends, err := db.ListFriends()
	if err != nil {
		t.Fatal(err)
	}
	if len(friends) != 2 {
		t.Fatalf("got %d friends, want 2", len(friends))
	}
	// Insertion order.
	if friends[0].Username != "Nova" || friends[1].Username != "Vega" {
		t.Errorf("order = %q, %q; want Nova, Vega", friends[0].Username, friends[1].Username)
	}

	f, err := db.FindFriend("Nova")
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.ID != "cosmic_n1" {
		t.Errorf("FindFriend(Nova) = %+v, want cosmic_n1", f)
	}

	f, err = db.FindFriend("cosmic_v1")
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.Username != "Vega" {
		t.Errorf("FindFriend(cosmic_v1) = %+v, want Vega", f)
	}

	f, err = db.FindFriend("missing")
	if err != nil {
		t.Fatal(err)
	}
	if f != nil {
		t.Errorf("FindFriend(missing) = %+v, want nil", f)
	}
}

func TestListFriendsDerivedColumns(t *testing.T) {
	db := testDB(t)
	addFriend(t, db, "cosmic_n1", "Nova")

	if err := db.AppendMessage(&Message{FriendID: "cosmic_n1", Sender: SenderUser, Kind: KindText, Body: "hi", Timestamp: 1000, Read: true}); err != nil {
		t.Fatal(err)
	}
	if err := db.AppendMessage(&Message{FriendID: "cosmic_n1", Sender: SenderFriend, Kind: KindText, Body: "hello!", Timestamp: 2000}); err != nil {
		t.Fatal(err)
	}
	if err := db.AppendMessage(&Message{FriendID: "cosmic_n1", Sender: SenderFriend, Kind: KindImage, ImageRef: "img:1", Timestamp: 3000}); err != nil {
		t.Fatal(err)
	}

	friends, err := db.ListFriends()
	if err != nil {
		t.Fatal(err)
	}
	if len(friends) != 1 {
		t.Fatalf("got %d friends, want 1", len(friends))
	}
	if friends[0].LastMessage != "📷 Image" {
		t.Errorf("last message = %q, want image placeholder", friends[0].LastMessage)
	}
	if friends[0].UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", friends[0].UnreadCount)
	}
}

func TestMessageAppendAssignsMonotonicIDs(t *testing.T) {
	db := testDB(t)
	addFriend(t, db, "cosmic_n1", "Nova")

	var last int64
	for i := 0; i < 5; i++ {
		m := &Message{FriendID: "cosmic_n1", Sender: SenderUser, Kind: KindText, Body: "m", Timestamp: int64(i), Read: true}
		if err := db.AppendMessage(m); err != nil {
			t.Fatal(err)
		}
		if m.ID <= last {
			t.Fatalf("id %d not greater than previous %d", m.ID, last)
		}
		last = m.ID
	}
}

func TestListMessagesAbsentConversation(t *testing.T) {
	db := testDB(t)

	msgs, err := db.ListMessages("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("got %d messages, want 0", len(msgs))
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	db := testDB(t)
	addFriend(t, db, "cosmic_n1", "Nova")

	// 3 unread friend messages, 2 user messages (always read).
	for i := 0; i < 3; i++ {
		if err := db.AppendMessage(&Message{FriendID: "cosmic_n1", Sender: SenderFriend, Kind: KindText, Body: "hey", Timestamp: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := db.AppendMessage(&Message{FriendID: "cosmic_n1", Sender: SenderUser, Kind: KindText, Body: "yo", Timestamp: int64(i), Read: true}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := db.UnreadCount("cosmic_n1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("unread = %d, want 3 (user messages never count)", n)
	}

	if err := db.MarkFriendMessagesRead("cosmic_n1"); err != nil {
		t.Fatal(err)
	}
	n, _ = db.UnreadCount("cosmic_n1")
	if n != 0 {
		t.Errorf("unread after mark = %d, want 0", n)
	}

	n, err = db.UnreadCount("absent")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("unread for absent conversation = %d, want 0", n)
	}
}

// TestReopenRoundTrip verifies that closing and reopening the database
// yields structurally identical state, matching the restore-at-startup
// behavior the client depends on.
func TestReopenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}

	if err := db.SaveAccount(&Account{ID: "cosmic_abc", Username: "nova", Email: "nova@example.com", Bio: "b", JoinDate: 1000}); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertFriend(&Friend{ID: "cosmic_n1", Username: "Nova", Status: StatusOffline, AddedDate: 2000}); err != nil {
		t.Fatal(err)
	}
	want := &Message{FriendID: "cosmic_n1", Sender: SenderFriend, Kind: KindText, Body: "hello", Timestamp: 3000}
	if err := db.AppendMessage(want); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db2.Close() }()

	a, err := db2.GetAccount()
	if err != nil {
		t.Fatal(err)
	}
	if a == nil || a.ID != "cosmic_abc" || a.Username != "nova" || a.Bio != "b" {
		t.Errorf("account after reopen = %+v", a)
	}
	friends, err := db2.ListFriends()
	if err != nil {
		t.Fatal(err)
	}
	if len(friends) != 1 || friends[0].Status != StatusOffline {
		t.Errorf("friends after reopen = %+v", friends)
	}
	msgs, err := db2.ListMessages("cosmic_n1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0] != *want {
		t.Errorf("messages after reopen = %+v, want %+v", msgs, want)
	}
}

func TestCounts(t *testing.T) {
	db := testDB(t)
	addFriend(t, db, "cosmic_n1", "Nova")
	addFriend(t, db, "cosmic_v1", "Vega")

	if err := db.AppendMessage(&Message{FriendID: "cosmic_n1", Sender: SenderUser, Kind: KindText, Body: "hi", Timestamp: 1, Read: true}); err != nil {
		t.Fatal(err)
	}

	fc, err := db.FriendCount()
	if err != nil {
		t.Fatal(err)
	}
	if fc != 2 {
		t.Errorf("FriendCount = %d, want 2", fc)
	}
	cc, err := db.ConversationCount()
	if err != nil {
		t.Fatal(err)
	}
	if cc != 1 {
		t.Errorf("ConversationCount = %d, want 1", cc)
	}
}
