package service

import (
	"encoding/json"
	"strings"

	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/pkg/errors"
)

type (
	// CreateItemParams are used to create an item.
	CreateItemParams struct {
		Summary  string        `json:"summary"`
		Priority PriorityValue `json:"priority"`
	}

	// A PriorityValue is a priority as sent by clients,
	// either the level name or its numeric form.
	PriorityValue string

	// ListParams are used to list items.
	ListParams struct {
		Scope         string `query:"scope"`
		ShowCompleted bool   `query:"completed"`
	}

	// UpdateItemParams are used to partially update an item.
	// Nil fields are left untouched.
	UpdateItemParams struct {
		Summary    *string
		Priority   *string
		IsComplete *bool
	}

	// An ItemList is a service used to manage the items of the current user.
	ItemList struct {
		db   database.Client
		user *model.User
	}
)

// NewItemList instantiates a new ItemList service for the given user.
func NewItemList(db database.Client, user *model.User) *ItemList {
	return &ItemList{
		db:   db,
		user: user,
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *PriorityValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = PriorityValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "priority must be a string or a number")
	}
	*v = PriorityValue(n.String())
	return nil
}

// Create creates an item owned by the current user in a single write transaction.
func (s *ItemList) Create(params CreateItemParams) (*model.Item, error) {
	if s.user == nil {
		return nil, ErrNoCurrentUser
	}

	if strings.TrimSpace(params.Summary) == "" {
		return nil, apierror.BadRequest("No summary provided.")
	}

	priority, err := model.ParsePriority(string(params.Priority))
	if err != nil {
		return nil, apierror.BadRequest("Unknown priority.")
	}

	item := model.NewItem(params.Summary, priority, s.user.ID)
	err = s.db.Write(func(tx database.Tx) error {
		return tx.Save(item)
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create item")
	}

	return item, nil
}

// List returns the items visible in the given scope.
func (s *ItemList) List(params ListParams) ([]*model.Item, error) {
	if s.user == nil {
		return nil, ErrNoCurrentUser
	}

	query := database.ItemQuery{
		IncludeCompleted: params.ShowCompleted,
	}

	switch params.Scope {
	case "", ScopeMine:
		query.OwnerID = s.user.ID
	case ScopeAll:
	default:
		return nil, apierror.BadRequest("Unknown scope.")
	}

	items, err := s.db.FindItems(query)
	return items, errors.Wrap(err, "could not list items")
}

// Toggle flips the completion of the given item.
func (s *ItemList) Toggle(id string) (*model.Item, error) {
	return s.mutate(id, func(item *model.Item) (bool, error) {
		item.IsComplete = !item.IsComplete
		return true, nil
	})
}

// Update applies the given params to the given item.
// The item is not saved when the params change nothing.
func (s *ItemList) Update(id string, params UpdateItemParams) (*model.Item, error) {
	return s.mutate(id, func(item *model.Item) (changed bool, err error) {
		if params.Summary != nil {
			if strings.TrimSpace(*params.Summary) == "" {
				return false, apierror.BadRequest("No summary provided.")
			}
			changed = changed || item.Summary != *params.Summary
			item.Summary = *params.Summary
		}

		if params.Priority != nil {
			priority, err := model.ParsePriority(*params.Priority)
			if err != nil {
				return false, apierror.BadRequest("Unknown priority.")
			}
			changed = changed || item.Priority != priority
			item.Priority = priority
		}

		if params.IsComplete != nil {
			changed = changed || item.IsComplete != *params.IsComplete
			item.IsComplete = *params.IsComplete
		}
		return changed, nil
	})
}

// Delete deletes the given item.
func (s *ItemList) Delete(id string) error {
	if s.user == nil {
		return ErrNoCurrentUser
	}

	err := s.db.Write(func(tx database.Tx) error {
		item, err := tx.FindItemByOwner(id, s.user.ID)
		if err != nil {
			return err
		}
		return tx.Delete(item)
	})

	if s.db.IsNotFound(err) {
		return ErrItemNotFound
	}
	return errors.Wrap(err, "could not delete item")
}

// mutate saves the item when apply reports a change.
func (s *ItemList) mutate(id string, apply func(item *model.Item) (bool, error)) (*model.Item, error) {
	if s.user == nil {
		return nil, ErrNoCurrentUser
	}

	var item *model.Item
	err := s.db.Write(func(tx database.Tx) (err error) {
		item, err = tx.FindItemByOwner(id, s.user.ID)
		if err != nil {
			return err
		}

		changed, err := apply(item)
		if err != nil || !changed {
			return err
		}
		return tx.Save(item)
	})

	if s.db.IsNotFound(err) {
		return nil, ErrItemNotFound
	}
	if _, ok := err.(*apierror.Error); ok {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not update item")
	}
	return item, nil
}
