package model

// A User represents a database record.
// Its ID is the identity stamped on every item the user creates.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Email    string `msgpack:"email"    storm:"unique"`
	Password string `msgpack:"password,omitempty"`

	// PasswordUpdatedAt is a Unix timestamp in seconds.
	// Tokens issued before it are revoked.
	PasswordUpdatedAt int64 `msgpack:"password_updated_at"`
}

// NewUser returns a new user with default params.
func NewUser() *User {
	return &User{}
}
