package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
)

type (
	// RegisterParams are used to register a user.
	RegisterParams struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// LoginParams are used to login a user.
	LoginParams struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// UpdatePasswordParams are used to update user's password.
	UpdatePasswordParams struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	// A Users is a service used to handle the identities that own items.
	Users struct {
		db database.Client
	}
)

// NewUsers returns a new Users service.
func NewUsers(db database.Client) *Users {
	return &Users{db: db}
}

// Register creates a new user.
func (s *Users) Register(params RegisterParams) (*model.User, error) {
	params.Email = strings.TrimSpace(params.Email)
	if params.Email == "" {
		return nil, apierror.New("No email provided.")
	}
	if params.Password == "" {
		return nil, apierror.New("No password provided.")
	}

	// Check if the email is free to use.
	u, err := s.db.FindUserByMail(params.Email)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if u != nil {
		return nil, apierror.NewWithTagCode(http.StatusUnauthorized, "", "This email is already registered.")
	}

	user := model.NewUser()
	user.Email = params.Email

	// Crypt password
	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}
	user.PasswordUpdatedAt = time.Now().Unix()

	// Persist the model
	if err := s.db.Save(user); err != nil {
		if s.db.IsAlreadyExists(err) {
			return nil, apierror.NewWithTagCode(http.StatusUnauthorized, "", "This email is already registered.")
		}
		return nil, errors.Wrap(err, "could not persist user")
	}

	return user, nil
}

// Login authenticates a user.
func (s *Users) Login(params LoginParams) (*model.User, error) {
	if params.Email == "" || params.Password == "" {
		return nil, apierror.NewWithTagCode(http.StatusBadRequest, "", "No email or password provided.")
	}

	user, err := s.db.FindUserByMail(params.Email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.NewWithTagCode(http.StatusUnauthorized, "", "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	// Verify password
	if err = argon2.CompareHashAndPasswordString(user.Password, params.Password); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, apierror.NewWithTagCode(http.StatusUnauthorized, "", "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not validate password")
	}

	return user, nil
}

// UpdatePassword changes the password of the given user.
// Tokens issued before the change are revoked.
func (s *Users) UpdatePassword(user *model.User, params UpdatePasswordParams) (*model.User, error) {
	if user == nil {
		return nil, ErrNoCurrentUser
	}

	if params.CurrentPassword == "" {
		return nil, apierror.NewWithTagCode(http.StatusUnauthorized, "", "Your current password is required to change your password.")
	}
	if params.NewPassword == "" {
		return nil, apierror.NewWithTagCode(http.StatusUnauthorized, "", "Your new password is required to change your password.")
	}

	if err := argon2.CompareHashAndPasswordString(user.Password, params.CurrentPassword); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, apierror.NewWithTagCode(http.StatusUnauthorized, "", "The current password you entered is incorrect. Please try again.")
		}
		return nil, errors.Wrap(err, "could not validate password")
	}

	pw, err := argon2.GenerateFromPasswordString(params.NewPassword, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}
	user.Password = pw
	user.PasswordUpdatedAt = time.Now().Unix()

	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}
	return user, nil
}
