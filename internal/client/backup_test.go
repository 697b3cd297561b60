package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/itemlist/pkg/libil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDump(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "items.json")

	dump := Dump{
		Email: "george.abitbol@nowhere.lan",
		Scope: libil.ScopeMine,
		Items: []libil.Item{{ID: "42", Summary: "Water plants", Priority: "high"}},
	}
	require.NoError(t, writeDump(dump, filename))

	payload, err := os.ReadFile(filename)
	require.NoError(t, err)

	var v Dump
	require.NoError(t, json.Unmarshal(payload, &v))
	assert.Equal(t, dump.Email, v.Email)
	assert.Equal(t, dump.Items, v.Items)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be renamed")
}

func TestWriteDump_MissingDirectory(t *testing.T) {
	err := writeDump(Dump{}, filepath.Join(t.TempDir(), "missing", "items.json"))
	assert.Error(t, err)
}
