package model

import "time"

// UserType values follow the users.user_type check constraint.
const (
	UserTypeShopper = "shopper"
	UserTypeBrand   = "brand"
)

// User represents an application user record as stored in the
// `users` table.  The ID is the identity issued at registration and is
// carried in the JWT subject claim; every user-scoped row in the schema
// hangs off this value.  The json tags are omitted here because these
// structs are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – UUID primary key of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name.
//  Phone        – optional phone number.
//  Country      – optional country.
//  City         – optional city.
//  UserType     – 'shopper' or 'brand'.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update (trigger-maintained).
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FullName     string    // users.full_name
	Phone        *string   // users.phone (nullable)
	Country      *string   // users.country (nullable)
	City         *string   // users.city (nullable)
	UserType     string    // users.user_type
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// ValidUserType reports whether t is an accepted users.user_type value.
func ValidUserType(t string) bool {
	return t == UserTypeShopper || t == UserTypeBrand
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
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
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
