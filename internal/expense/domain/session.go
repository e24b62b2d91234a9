package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Session is the resolved identity behind a request. A nil User means the
// caller is anonymous.
type Session struct {
	ID         string    `json:"id,omitempty"`
	User       *User     `json:"user,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	LastSeenAt time.Time `json:"lastSeenAt,omitzero"`
}

func (s Session) IsAuthenticated() bool { return s.User != nil }

// Role returns the session role, requestor when anonymous or unknown.
func (s Session) Role() Role {
	if s.User == nil {
		return RoleRequestor
	}
	return ResolveRole(string(s.User.Role))
}

// SessionRecord is the stored form of a session. Snapshot holds the user
// exactly as it was at login and is never refreshed from the users table.
type SessionRecord struct {
	ID         string
	UserID     string
	TokenHash  string // base64url SHA-256 of the issued token
	Snapshot   []byte
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// NewSessionRecord snapshots u into a record.
func NewSessionRecord(id string, u User, tokenHash string, now time.Time) (SessionRecord, error) {
	snap, err := json.Marshal(u)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("snapshot user: %w", err)
	}
	return SessionRecord{
		ID:         id,
		UserID:     u.ID,
		TokenHash:  tokenHash,
		Snapshot:   snap,
		CreatedAt:  now,
		LastSeenAt: now,
	}, nil
}

// Session decodes the snapshot back into an authenticated session.
func (r SessionRecord) Session() (Session, error) {
	var u User
	if err := json.Unmarshal(r.Snapshot, &u); err != nil {
		return Session{}, fmt.Errorf("decode session %s snapshot: %w", r.ID, err)
	}
	return Session{
		ID:         r.ID,
		User:       &u,
		CreatedAt:  r.CreatedAt,
		LastSeenAt: r.LastSeenAt,
	}, nil
}
