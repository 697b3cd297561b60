package session

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/pkg/errors"
)

// Issuer is the issuer of the tokens generated by the server.
const Issuer = "github.com/mdouchement/itemlist"

type (
	// A Manager manages the tokens identifying the current user.
	Manager interface {
		// JWTSigningKey returns the key used to sign tokens.
		JWTSigningKey() []byte
		// Token generates a new token for the given user.
		Token(user *model.User) (string, error)
		// UserFromToken returns the user of the given token.
		UserFromToken(token *jwt.Token) (*model.User, error)
	}

	manager struct {
		db         database.Client
		signingKey []byte
		expiration time.Duration
	}
)

// NewManager returns a new manager.
// A zero expiration means the tokens never expire (they are still revoked on password change).
func NewManager(db database.Client, signingKey []byte, expiration time.Duration) Manager {
	return &manager{
		db:         db,
		signingKey: signingKey,
		expiration: expiration,
	}
}

func (m *manager) JWTSigningKey() []byte {
	return m.signingKey
}

func (m *manager) Token(user *model.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_uuid": user.ID,
		"iss":       Issuer,
		"iat":       now.Unix(), // Unix Timestamp in seconds
		"jti":       uuid.Must(uuid.NewV4()).String(),
	}
	if m.expiration > 0 {
		claims["exp"] = now.Add(m.expiration).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString(m.signingKey)
	return t, errors.Wrap(err, "could not generate token")
}

func (m *manager) UserFromToken(token *jwt.Token) (*model.User, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		panic("token implementation has wrong type of claims")
	}

	id, ok := claims["user_uuid"].(string)
	if !ok {
		return nil, apierror.Unauthorized("Invalid login credentials.")
	}

	// Get current_user.
	user, err := m.db.FindUser(id)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, apierror.Unauthorized("Invalid login credentials.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}

	// Check if password has changed since token was generated.
	var iat int64
	switch v := claims["iat"].(type) {
	case float64:
		iat = int64(v)
	case json.Number:
		iat, _ = v.Int64()
	default:
		return nil, apierror.Unauthorized("Invalid login credentials.")
	}

	if iat < user.PasswordUpdatedAt {
		return nil, apierror.Unauthorized("Revoked token.")
	}

	return user, nil
}
