package store

import "database/sql"

// InsertFriend appends a friend record. The id and username columns are
// unique; the registry checks for duplicates before inserting.
func (db *DB) InsertFriend(f *Friend) error {
	_, err := db.Exec(`
		INSERT INTO friends (id, username, status, avatar, added_date)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.Username, f.Status, f.Avatar, f.AddedDate)
	return err
}

// ListFriends returns friends in insertion order. Each row carries a
// derived last-message preview (images shown as a placeholder) and the
// conversation's unread count.
func (db *DB) ListFriends() ([]Friend, error) {
	rows, err := db.Query(`
		SELECT f.id, f.username, f.status, f.avatar, f.added_date,
			COALESCE((SELECT CASE m.kind WHEN 'image' THEN '📷 Image' ELSE m.body END
				FROM messages m WHERE m.friend_id = f.id
				ORDER BY m.id DESC LIMIT 1), '') AS last_message,
			(SELECT COUNT(*) FROM messages m
				WHERE m.friend_id = f.id AND m.sender = 'friend' AND m.read = 0) AS unread
		FROM friends f
		ORDER BY f.rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var friends []Friend
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.ID, &f.Username, &f.Status, &f.Avatar, &f.AddedDate, &f.LastMessage, &f.UnreadCount); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

// FindFriend returns the friend whose id or username matches, or nil.
func (db *DB) FindFriend(idOrUsername string) (*Friend, error) {
	var f Friend
	err := db.QueryRow(`
		SELECT id, username, status, avatar, added_date
		FROM friends WHERE id = ? OR username = ?`,
		idOrUsername, idOrUsername).
		Scan(&f.ID, &f.Username, &f.Status, &f.Avatar, &f.AddedDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FriendCount returns the total number of friends.
func (db *DB) FriendCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM friends`).Scan(&count)
	return count, err
}
