package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Users participate in the allocation logic only through their
// ID, which is stamped on every reservation record and compared when
// computing the "mine" projection flag.
//
// Fields:
//  ID        – primary key identifier of the user.
//  NickName  – display name shown alongside reservations.
//  LoginName – unique login identifier.
//  PassHash  – bcrypt hashed password.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    // users.id
	NickName  string    // users.nick_name
	LoginName string    // users.login_name
	PassHash  string    // users.pass_hash
	CreatedAt time.Time // users.created_at
	UpdatedAt time.Time // users.updated_at
}

// Administrator represents a row in the `administrators` table.
// Administrators may manage events and cancel reservations they do
// not own.  The shape mirrors User but lives in its own table so the
// two identity spaces cannot collide.
type Administrator struct {
	ID        uint64    // administrators.id
	NickName  string    // administrators.nick_name
	LoginName string    // administrators.login_name
	PassHash  string    // administrators.pass_hash
	CreatedAt time.Time // administrators.created_at
	UpdatedAt time.Time // administrators.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its SHA-256
// hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
