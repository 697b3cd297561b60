// Package service implements the item list operations on top of the store.
package service

import (
	"net/http"

	"github.com/mdouchement/itemlist/internal/apierror"
)

// M is an arbitrary map.
type M map[string]any

// Scopes of item listing.
const (
	// ScopeMine lists the items owned by the current user.
	ScopeMine = "mine"
	// ScopeAll lists the items of every owner.
	ScopeAll = "all"
)

var (
	// ErrNoCurrentUser is returned when an operation needs an identity and none is provided.
	ErrNoCurrentUser = apierror.NewWithTagCode(http.StatusUnauthorized, apierror.TagInvalidAuth, "No current user.")
	// ErrItemNotFound is returned when the item does not exist or is owned by someone else.
	ErrItemNotFound = apierror.NotFound("Item not found.")
)
