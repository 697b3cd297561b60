package libil

import "time"

// Scopes of item listing.
const (
	ScopeMine = "mine"
	ScopeAll  = "all"
)

type (
	// An Item is an entry of the list.
	Item struct {
		ID         string    `json:"id"`
		CreatedAt  time.Time `json:"created_at"`
		UpdatedAt  time.Time `json:"updated_at"`
		Summary    string    `json:"summary"`
		Priority   string    `json:"priority"`
		OwnerID    string    `json:"owner_id"`
		IsComplete bool      `json:"isComplete"`
	}

	// An ItemPatch holds the fields to update on an item.
	// Nil fields are not sent.
	ItemPatch struct {
		Summary    *string `json:"summary,omitempty"`
		Priority   *string `json:"priority,omitempty"`
		IsComplete *bool   `json:"isComplete,omitempty"`
	}

	// ListOptions filters the listed items.
	ListOptions struct {
		// Scope is ScopeMine when empty.
		Scope     string
		Completed bool
	}

	// A User is the account owning items.
	User struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
		Email     string    `json:"email"`
	}
)
