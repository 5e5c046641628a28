package model

import "time"

// User mirrors a record in the remote users resource. Field names follow the
// remote collaborator's JSON, not ours. The password travels and is stored in
// plaintext against the mock server; that weakness is part of the contract.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Cell         string `json:"cell"`
	ProfileImage string `json:"profileImage,omitempty"`
	JoinDate     string `json:"joinDate,omitempty"`
}

// UserPatch is a partial update sent to the remote users resource. Nil fields
// are omitted from the request body; a non-nil pointer to an empty string
// overwrites the remote field with "".
type UserPatch struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Password     *string `json:"password,omitempty"`
	Cell         *string `json:"cell,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// Session is a local login session backed by a browser cookie. UserID refers
// to a record on the remote users resource; no integrity is enforced.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
