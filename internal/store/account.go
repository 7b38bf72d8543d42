package store

import "database/sql"

// SaveAccount writes the account record, replacing any previous one.
// The table holds at most one row.
func (db *DB) SaveAccount(a *Account) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM account`); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO account (id, username, email, bio, avatar, join_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.Email, a.Bio, a.Avatar, a.JoinDate); err != nil {
		return err
	}
	return tx.Commit()
}

// GetAccount returns the persisted account, or nil when no session exists.
func (db *DB) GetAccount() (*Account, error) {
	var a Account
	err := db.QueryRow(`SELECT id, username, email, bio, avatar, join_date FROM account`).
		Scan(&a.ID, &a.Username, &a.Email, &a.Bio, &a.Avatar, &a.JoinDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAccountProfile changes the username and bio of the account.
func (db *DB) UpdateAccountProfile(username, bio string) error {
	_, err := db.Exec(`UPDATE account SET username = ?, bio = ?`, username, bio)
	return err
}

// SetAccountAvatar stores the avatar reference.
func (db *DB) SetAccountAvatar(ref string) error {
	_, err := db.Exec(`UPDATE account SET avatar = ?`, ref)
	return err
}

// Wipe deletes all persisted state: account, friends, and messages.
// Called on logout.
func (db *DB) Wipe() error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM messages`,
		`DELETE FROM friends`,
		`DELETE FROM account`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
