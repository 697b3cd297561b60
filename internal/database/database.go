package database

import (
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/internal/notify"
)

type (
	// A Client can interacts with the database.
	// It is the store handle shared by all the services.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Write runs fn in a scoped write transaction.
		// The transaction is committed when fn returns nil and rolled back otherwise.
		Write(fn func(tx Tx) error) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an already exists error.
		IsAlreadyExists(err error) bool

		UserInteraction
		ItemInteraction
	}

	// A Tx is a write transaction.
	Tx interface {
		// Save inserts or updates the entry with the given model.
		Save(m model.Model) error
		// Delete deletes the entry with the given model.
		Delete(m model.Model) error
		// FindItem returns the item for the given id (UUID).
		FindItem(id string) (*model.Item, error)
		// FindItemByOwner returns the item for the given id and owner id (UUID).
		FindItemByOwner(id, ownerID string) (*model.Item, error)
	}

	// A Publisher receives the item changes once their transaction is committed.
	Publisher interface {
		Publish(changes ...notify.Change)
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email.
		FindUserByMail(email string) (*model.User, error)
		// FindUsers returns all the users.
		FindUsers() ([]*model.User, error)
	}

	// An ItemInteraction defines all the methods used to interact with a item record(s).
	ItemInteraction interface {
		// FindItem returns the item for the given id (UUID).
		FindItem(id string) (*model.Item, error)
		// FindItemByOwner returns the item for the given id and owner id (UUID).
		FindItemByOwner(id, ownerID string) (*model.Item, error)
		// FindItems returns all the records matching the given query.
		// Items are ordered by priority (most urgent first) then by creation date.
		FindItems(query ItemQuery) ([]*model.Item, error)
		// DeleteItemsByOwner deletes all the items of the given owner and returns how many were removed.
		DeleteItemsByOwner(ownerID string) (int, error)
	}

	// An ItemQuery holds the filters applied by FindItems.
	ItemQuery struct {
		// OwnerID restricts the items to the given owner. Empty means all owners.
		OwnerID string
		// IncludeCompleted also returns the completed items.
		IncludeCompleted bool
		// Priority restricts the items to the given level when not nil.
		Priority *model.Priority
		// Limit is the maximum number of items returned. 0 means all items.
		Limit int
	}
)
