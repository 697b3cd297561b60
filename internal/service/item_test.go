package service_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem(t *testing.T) {
	db := setup(t)
	user := createUser(t, db, "george.abitbol@nowhere.lan")

	list := service.NewItemList(db, user)
	item, err := list.Create(service.CreateItemParams{Summary: "Buy milk", Priority: "High"})
	require.NoError(t, err)

	items, err := db.FindItems(database.ItemQuery{IncludeCompleted: true})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, item.ID, items[0].ID)
	assert.Equal(t, "Buy milk", items[0].Summary)
	assert.Equal(t, model.PriorityHigh, items[0].Priority)
	assert.Equal(t, user.ID, items[0].OwnerID)
	assert.False(t, items[0].IsComplete)
	assert.NotNil(t, items[0].CreatedAt)
}

func TestCreateItemNumericPriority(t *testing.T) {
	db := setup(t)
	user := createUser(t, db, "george.abitbol@nowhere.lan")

	var params service.CreateItemParams
	require.NoError(t, json.Unmarshal([]byte(`{"summary":"Buy milk","priority":0}`), &params))
	assert.Equal(t, service.PriorityValue("0"), params.Priority)

	item, err := service.NewItemList(db, user).Create(params)
	require.NoError(t, err)
	assert.Equal(t, model.PrioritySevere, item.Priority)

	require.NoError(t, json.Unmarshal([]byte(`{"summary":"Buy milk","priority":1.5}`), &params))
	_, err = service.NewItemList(db, user).Create(params)
	assert.EqualError(t, err, "Unknown priority.")

	assert.Error(t, json.Unmarshal([]byte(`{"priority":true}`), &params))
}

func TestCreateItemDefaultPriority(t *testing.T) {
	db := setup(t)
	user := createUser(t, db, "george.abitbol@nowhere.lan")

	item, err := service.NewItemList(db, user).Create(service.CreateItemParams{Summary: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityDefault, item.Priority)
}

func TestCreateItemRejections(t *testing.T) {
	db := setup(t)
	user := createUser(t, db, "george.abitbol@nowhere.lan")

	_, err := service.NewItemList(db, nil).Create(service.CreateItemParams{Summary: "Buy milk"})
	assert.Equal(t, service.ErrNoCurrentUser, err)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusCode(err))

	_, err = service.NewItemList(db, user).Create(service.CreateItemParams{Summary: "   "})
	assert.EqualError(t, err, "No summary provided.")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusCode(err))

	_, err = service.NewItemList(db, user).Create(service.CreateItemParams{Summary: "Buy milk", Priority: "asap"})
	assert.EqualError(t, err, "Unknown priority.")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusCode(err))

	items, err := db.FindItems(database.ItemQuery{IncludeCompleted: true})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateItemClosedStore(t *testing.T) {
	db := setup(t)
	user := createUser(t, db, "george.abitbol@nowhere.lan")
	require.NoError(t, db.Close())

	_, err := service.NewItemList(db, user).Create(service.CreateItemParams{Summary: "Buy milk"})
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apierror.StatusCode(err))
}

func TestListItems(t *testing.T) {
	db := setup(t)
	alice := createUser(t, db, "alice@nowhere.lan")
	bob := createUser(t, db, "bob@nowhere.lan")

	_, err := service.NewItemList(db, alice).Create(service.CreateItemParams{Summary: "Alice's", Priority: "low"})
	require.NoError(t, err)
	done, err := service.NewItemList(db, alice).Create(service.CreateItemParams{Summary: "Alice's done", Priority: "severe"})
	require.NoError(t, err)
	_, err = service.NewItemList(db, alice).Toggle(done.ID)
	require.NoError(t, err)
	_, err = service.NewItemList(db, bob).Create(service.CreateItemParams{Summary: "Bob's", Priority: "high"})
	require.NoError(t, err)

	list := service.NewItemList(db, alice)

	items, err := list.List(service.ListParams{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Alice's", items[0].Summary)

	items, err = list.List(service.ListParams{Scope: service.ScopeMine, ShowCompleted: true})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = list.List(service.ListParams{Scope: service.ScopeAll})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Bob's", items[0].Summary)

	_, err = list.List(service.ListParams{Scope: "theirs"})
	assert.EqualError(t, err, "Unknown scope.")

	_, err = service.NewItemList(db, nil).List(service.ListParams{})
	assert.Equal(t, service.ErrNoCurrentUser, err)
}

func TestToggleItem(t *testing.T) {
	db := setup(t)
	alice := createUser(t, db, "alice@nowhere.lan")
	bob := createUser(t, db, "bob@nowhere.lan")

	item, err := service.NewItemList(db, alice).Create(service.CreateItemParams{Summary: "Buy milk"})
	require.NoError(t, err)

	toggled, err := service.NewItemList(db, alice).Toggle(item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsComplete)

	toggled, err = service.NewItemList(db, alice).Toggle(item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsComplete)

	_, err = service.NewItemList(db, bob).Toggle(item.ID)
	assert.Equal(t, service.ErrItemNotFound, err)

	_, err = service.NewItemList(db, alice).Toggle("unknown")
	assert.Equal(t, service.ErrItemNotFound, err)
}

func TestUpdateItem(t *testing.T) {
	db := setup(t)
	user := createUser(t, db, "george.abitbol@nowhere.lan")
	list := service.NewItemList(db, user)

	item, err := list.Create(service.CreateItemParams{Summary: "Buy milk", Priority: "low"})
	require.NoError(t, err)

	updated, err := list.Update(item.ID, service.UpdateItemParams{Priority: strptr("severe")})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Summary)
	assert.Equal(t, model.PrioritySevere, updated.Priority)
	assert.False(t, updated.IsComplete)

	updated, err = list.Update(item.ID, service.UpdateItemParams{Summary: strptr("Buy oat milk"), IsComplete: boolptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Summary)
	assert.True(t, updated.IsComplete)

	_, err = list.Update(item.ID, service.UpdateItemParams{Summary: strptr("")})
	assert.EqualError(t, err, "No summary provided.")

	_, err = list.Update(item.ID, service.UpdateItemParams{Priority: strptr("later")})
	assert.EqualError(t, err, "Unknown priority.")

	found, err := db.FindItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", found.Summary, "rejected updates are rolled back")
}

func TestUpdateItemWithoutChange(t *testing.T) {
	published := &counter{}
	db := setup(t, database.WithPublisher(published))
	user := createUser(t, db, "george.abitbol@nowhere.lan")
	list := service.NewItemList(db, user)

	item, err := list.Create(service.CreateItemParams{Summary: "Buy milk", Priority: "low"})
	require.NoError(t, err)
	require.Equal(t, 1, published.count())

	updated, err := list.Update(item.ID, service.UpdateItemParams{})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Summary)

	_, err = list.Update(item.ID, service.UpdateItemParams{Summary: strptr("Buy milk"), Priority: strptr("3")})
	require.NoError(t, err)

	found, err := db.FindItem(item.ID)
	require.NoError(t, err)
	assert.True(t, item.UpdatedAt.Equal(*found.UpdatedAt))
	assert.Equal(t, 1, published.count(), "no change is published")

	_, err = list.Update("unknown", service.UpdateItemParams{})
	assert.Equal(t, service.ErrItemNotFound, err)
}

func TestDeleteItem(t *testing.T) {
	db := setup(t)
	alice := createUser(t, db, "alice@nowhere.lan")
	bob := createUser(t, db, "bob@nowhere.lan")

	item, err := service.NewItemList(db, alice).Create(service.CreateItemParams{Summary: "Buy milk"})
	require.NoError(t, err)

	err = service.NewItemList(db, bob).Delete(item.ID)
	assert.Equal(t, service.ErrItemNotFound, err)

	err = service.NewItemList(db, alice).Delete(item.ID)
	assert.NoError(t, err)

	err = service.NewItemList(db, alice).Delete(item.ID)
	assert.Equal(t, service.ErrItemNotFound, err)

	assert.Equal(t, service.ErrNoCurrentUser, service.NewItemList(db, nil).Delete(item.ID))
}
