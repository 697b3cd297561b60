package server

import (
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/internal/server/session"
)

// This file is only for test purpose and is only loaded by test framework.

// CreateJWT returns a JWT for the given user.
func CreateJWT(ctrl Controller, u *model.User) string {
	token, err := session.NewManager(ctrl.Database, ctrl.SigningKey, ctrl.TokenExpirationTime).Token(u)
	if err != nil {
		panic(err)
	}
	return token
}
