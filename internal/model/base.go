package model

import (
	"time"
)

type (
	// A Model defines an object that can be stored in the item store.
	Model interface {
		// GetID returns the model's ID, empty until the first save.
		GetID() string
		// Touch stamps the model as saved at t.
		// A model without ID is given newID and Touch returns true.
		Touch(t time.Time, newID func() string) (inserted bool)
	}

	// A Base contains the default model fields.
	Base struct {
		ID        string     `json:"id"         msgpack:"id"         storm:"id"`
		CreatedAt *time.Time `json:"created_at" msgpack:"created_at" storm:"index"`
		UpdatedAt *time.Time `json:"updated_at" msgpack:"updated_at" storm:"index"`
	}
)

// GetID returns the model's ID.
func (m *Base) GetID() string {
	return m.ID
}

// Touch implements Model.
func (m *Base) Touch(t time.Time, newID func() string) bool {
	m.UpdatedAt = &t

	inserted := m.ID == ""
	if inserted {
		m.ID = newID()
	}
	if inserted || m.CreatedAt == nil {
		m.CreatedAt = &t
	}
	return inserted
}
