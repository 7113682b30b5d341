package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/LRM-Solutions/fortelyne-app-checklist/client"
)

// Store implements client.SessionStore.

func (s *Store) SaveSession(sess *client.Session) error {
	cipher, err := s.seal([]byte(sess.Token))
	if err != nil {
		return fmt.Errorf("store.session.seal: %w", err)
	}

	var expires any
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt
	}
	_, err = s.db.Exec(`
		INSERT INTO session (id, token_cipher, email, expires_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			token_cipher = excluded.token_cipher,
			email = excluded.email,
			expires_at = excluded.expires_at`,
		cipher,
		sess.Email,
		expires,
	)
	return err
}

func (s *Store) LoadSession() (*client.Session, error) {
	sess := &client.Session{}
	var cipher []byte
	var expires sql.NullTime
	err := s.db.
		QueryRow("SELECT token_cipher, email, expires_at FROM session WHERE id = 1").
		Scan(&cipher, &sess.Email, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	token, err := s.open(cipher)
	if err != nil {
		return nil, fmt.Errorf("store.session.open: %w", err)
	}
	sess.Token = string(token)
	if expires.Valid {
		sess.ExpiresAt = expires.Time
	}
	return sess, nil
}

func (s *Store) ClearSession() error {
	_, err := s.db.Exec("DELETE FROM session WHERE id = 1")
	return err
}
