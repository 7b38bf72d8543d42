package store

// AppendMessage adds a message to the end of its conversation and fills
// in the assigned id. Ids are rowids, so they increase monotonically
// with creation order.
func (db *DB) AppendMessage(m *Message) error {
	res, err := db.Exec(`
		INSERT INTO messages (friend_id, sender, kind, body, image_ref, timestamp, read)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.FriendID, m.Sender, m.Kind, m.Body, m.ImageRef, m.Timestamp, m.Read)
	if err != nil {
		return err
	}
	m.ID, err = res.LastInsertId()
	return err
}

// ListMessages returns a conversation in send order. An unknown friend id
// yields an empty slice, never an error.
func (db *DB) ListMessages(friendID string) ([]Message, error) {
	rows, err := db.Query(`
		SELECT id, friend_id, sender, kind, body, image_ref, timestamp, read
		FROM messages WHERE friend_id = ? ORDER BY id`, friendID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.FriendID, &m.Sender, &m.Kind, &m.Body, &m.ImageRef, &m.Timestamp, &m.Read); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MarkFriendMessagesRead flips read on every friend-sent message of the
// conversation. User-sent messages are stored read and stay that way.
func (db *DB) MarkFriendMessagesRead(friendID string) error {
	_, err := db.Exec(`
		UPDATE messages SET read = 1
		WHERE friend_id = ? AND sender = 'friend' AND read = 0`, friendID)
	return err
}

// UnreadCount returns the number of unread friend-sent messages in the
// conversation. Zero when the conversation is absent.
func (db *DB) UnreadCount(friendID string) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM messages
		WHERE friend_id = ? AND sender = 'friend' AND read = 0`, friendID).
		Scan(&count)
	return count, err
}

// ConversationCount returns the number of friends with at least one message.
func (db *DB) ConversationCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(DISTINCT friend_id) FROM messages`).Scan(&count)
	return count, err
}
