package structs_test

import (
	"testing"

	"github.com/mdouchement/itemlist/pkg/structs"
	"github.com/stretchr/testify/assert"
)

type (
	Base struct {
		ID string
	}

	record struct {
		Base
		Summary  string
		Priority int
	}
)

func TestGetField(t *testing.T) {
	r := &record{Base: Base{ID: "42"}, Summary: "Buy milk", Priority: 1}

	v, err := structs.GetField(r, "Summary")
	assert.NoError(t, err)
	assert.Equal(t, "Buy milk", v)

	_, err = structs.GetField(r, "Unknown")
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	r := record{Base: Base{ID: "42"}, Summary: "Buy milk", Priority: 1}

	projection, err := structs.Project(r, "ID", "Priority")
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"ID": "42", "Priority": 1}, projection)

	projection, err = structs.Project(r)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"ID": "42", "Summary": "Buy milk", "Priority": 1}, projection)

	_, err = structs.Project(r, "Unknown")
	assert.ErrorContains(t, err, "field Unknown")
}
