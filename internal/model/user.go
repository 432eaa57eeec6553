package model

import "time"

// Role values stored in users.role. New accounts default to RoleUser;
// RoleAdmin unlocks the administrative endpoints.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The password
// hash never leaves the credential-store boundary: the json tag strips it
// from every serialized response.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Role         – "admin" or "user" (defaults to "user").
//  Username     – unique display name.
//  FirstName    – given name.
//  LastName     – family name.
//  BirthDate    – date of birth (DATE column, midnight UTC).
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password, never serialized.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`        // users.id
	Role         string    `json:"role"`      // users.role
	Username     string    `json:"username"`  // users.username
	FirstName    string    `json:"firstName"` // users.first_name
	LastName     string    `json:"lastName"`  // users.last_name
	BirthDate    time.Time `json:"birthDate"` // users.birth_date
	Email        string    `json:"email"`     // users.email
	PasswordHash string    `json:"-"`         // users.password
	CreatedAt    time.Time `json:"createdAt"` // users.created_at
	UpdatedAt    time.Time `json:"updatedAt"` // users.updated_at
}

// AccessToken models an entry in the `access_tokens` table. Tokens are
// opaque bearer credentials: the client holds the raw value, the database
// keeps only the SHA-256 hash of its secret segment. A token references its
// owning user but does not own the user's lifecycle; deleting a user
// cascades over its tokens.
//
// Fields:
//  ID        – primary key identifier, also encoded into the raw token.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token secret.
//  Abilities – JSON-encoded ability list; `["*"]` grants full access.
//  Name      – optional label, unused by the API surface.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null while live).
//  CreatedAt – timestamp of issuance.
type AccessToken struct {
	ID        uint64     // access_tokens.id
	UserID    uint64     // access_tokens.user_id
	TokenHash string     // access_tokens.token_hash
	Abilities string     // access_tokens.abilities
	Name      *string    // access_tokens.name (nullable)
	ExpiresAt time.Time  // access_tokens.expires_at
	RevokedAt *time.Time // access_tokens.revoked_at (nullable)
	CreatedAt time.Time  // access_tokens.created_at
}
