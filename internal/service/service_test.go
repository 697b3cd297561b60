package service_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/internal/notify"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...database.Option) database.Client {
	filename := filepath.Join(t.TempDir(), "itemlist.db")

	db, err := database.StormOpen(filename, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createUser(t *testing.T, db database.Client, email string) *model.User {
	user := model.NewUser()
	user.Email = email
	require.NoError(t, db.Save(user))
	return user
}

func strptr(s string) *string {
	return &s
}

func boolptr(b bool) *bool {
	return &b
}

type counter struct {
	sync.Mutex
	n int
}

func (c *counter) Publish(changes ...notify.Change) {
	c.Lock()
	defer c.Unlock()
	c.n += len(changes)
}

func (c *counter) count() int {
	c.Lock()
	defer c.Unlock()
	return c.n
}
