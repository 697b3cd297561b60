package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/internal/notify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type (
	strm struct {
		db        *storm.DB
		publisher Publisher
	}

	// An Option configures the Storm database connection.
	Option func(*options)

	options struct {
		codec     string
		publisher Publisher
	}
)

// WithCodec defines the format used to store data (see CodecByName).
func WithCodec(name string) Option {
	return func(o *options) {
		o.codec = name
	}
}

// WithPublisher defines where committed item changes are published.
func WithPublisher(p Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

func open(database string, opts []Option) (*storm.DB, options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	codec, err := CodecByName(o.codec)
	if err != nil {
		return nil, o, err
	}

	db, err := storm.Open(database, storm.Codec(codec))
	if err != nil {
		return nil, o, errors.Wrap(err, "could not get database connection")
	}
	return db, o, nil
}

// StormInit initializes Storm database.
func StormInit(database string, opts ...Option) error {
	db, _, err := open(database, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Init(&model.User{}); err != nil {
		return errors.Wrap(err, "could not init user index")
	}

	err = db.Init(&model.Item{})
	return errors.Wrap(err, "could not init item index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database string, opts ...Option) error {
	db, _, err := open(database, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReIndex(&model.User{}); err != nil {
		return errors.Wrap(err, "could not ReIndex users")
	}

	err = db.ReIndex(&model.Item{})
	return errors.Wrap(err, "could not ReIndex items")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string, opts ...Option) (Client, error) {
	db, o, err := open(database, opts)
	if err != nil {
		return nil, err
	}

	return &strm{
		db:        db,
		publisher: o.publisher,
	}, nil
}

// StormRaw returns the underlying Storm database for tooling that performs arbitrary queries.
// Writes done through it are not published.
func StormRaw(database string, opts ...Option) (*storm.DB, error) {
	db, _, err := open(database, opts)
	return db, err
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	return c.Write(func(tx Tx) error {
		return tx.Save(m)
	})
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return c.Write(func(tx Tx) error {
		return tx.Delete(m)
	})
}

// Write runs fn in a scoped write transaction.
func (c *strm) Write(fn func(tx Tx) error) (err error) {
	node, err := c.db.Begin(true)
	if err != nil {
		return errors.Wrap(err, "could not begin write transaction")
	}

	tx := &stormTx{node: node}
	defer func() {
		if r := recover(); r != nil {
			rollback(node)
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		rollback(node)
		return err
	}

	if err = node.Commit(); err != nil {
		return errors.Wrap(err, "could not commit write transaction")
	}

	if c.publisher != nil {
		c.publisher.Publish(tx.changes...)
	}
	return nil
}

func rollback(node storm.Node) {
	if err := node.Rollback(); err != nil {
		logrus.WithError(err).Error("could not rollback write transaction")
	}
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is nil or a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByMail returns the user for the given email.
func (c *strm) FindUserByMail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", email, &user); err != nil {
		return nil, errors.Wrap(err, "find user by mail")
	}
	return &user, nil
}

// FindUsers returns all the users.
func (c *strm) FindUsers() ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := c.db.All(&users)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find users")
	}
	return users, nil
}

// FindItem returns the item for the given id (UUID).
func (c *strm) FindItem(id string) (*model.Item, error) {
	return findItem(c.db, id)
}

// FindItemByOwner returns the item for the given id and owner id (UUID).
func (c *strm) FindItemByOwner(id, ownerID string) (*model.Item, error) {
	return findItemByOwner(c.db, id, ownerID)
}

// FindItems returns all the records matching the given query.
func (c *strm) FindItems(query ItemQuery) ([]*model.Item, error) {
	var matchers []q.Matcher

	if query.OwnerID != "" {
		matchers = append(matchers, q.Eq("OwnerID", query.OwnerID))
	}

	if !query.IncludeCompleted {
		matchers = append(matchers, q.Eq("IsComplete", false))
	}

	if query.Priority != nil {
		matchers = append(matchers, q.Eq("Priority", *query.Priority))
	}

	items := make([]*model.Item, 0)
	stmt := c.db.Select(matchers...).OrderBy("Priority", "CreatedAt")
	if query.Limit > 0 {
		stmt = stmt.Limit(query.Limit)
	}
	err := stmt.Find(&items)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find items")
	}

	return items, nil
}

// DeleteItemsByOwner deletes all the items of the given owner.
func (c *strm) DeleteItemsByOwner(ownerID string) (n int, err error) {
	err = c.Write(func(tx Tx) error {
		stx := tx.(*stormTx)

		items := make([]*model.Item, 0)
		err := stx.node.Select(q.Eq("OwnerID", ownerID)).Find(&items)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err = tx.Delete(item); err != nil {
				return err
			}
		}
		n = len(items)
		return nil
	})

	if c.IsNotFound(err) {
		return 0, nil
	}
	return n, errors.Wrap(err, "could not delete items by owner")
}

//
// Transaction
//

type stormTx struct {
	node    storm.Node
	changes []notify.Change
}

// Save inserts or updates the entry with the given model.
func (tx *stormTx) Save(m model.Model) error {
	inserted := stamp(m)

	if err := tx.node.Save(m); err != nil {
		return errors.Wrap(err, "could not save the model")
	}

	kind := notify.Updated
	if inserted {
		kind = notify.Inserted
	}
	tx.track(kind, m)
	return nil
}

// Delete deletes the entry with the given model.
func (tx *stormTx) Delete(m model.Model) error {
	if err := tx.node.DeleteStruct(m); err != nil {
		return errors.Wrap(err, "could not delete the model")
	}

	tx.track(notify.Deleted, m)
	return nil
}

// FindItem returns the item for the given id (UUID).
func (tx *stormTx) FindItem(id string) (*model.Item, error) {
	return findItem(tx.node, id)
}

// FindItemByOwner returns the item for the given id and owner id (UUID).
func (tx *stormTx) FindItemByOwner(id, ownerID string) (*model.Item, error) {
	return findItemByOwner(tx.node, id, ownerID)
}

func (tx *stormTx) track(kind notify.Kind, m model.Model) {
	if item, ok := m.(*model.Item); ok {
		tx.changes = append(tx.changes, notify.Change{Kind: kind, Item: *item})
	}
}

//
// Helpers
//

// stamp sets the timestamps of the given model and its ID when it is a new record.
// It returns true for a new record.
func stamp(m model.Model) bool {
	return m.Touch(time.Now().UTC(), func() string {
		return uuid.Must(uuid.NewV4()).String()
	})
}

func findItem(n storm.Node, id string) (*model.Item, error) {
	var item model.Item
	if err := n.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return &item, nil
}

func findItemByOwner(n storm.Node, id, ownerID string) (*model.Item, error) {
	var item model.Item
	err := n.Select(q.Eq("ID", id), q.Eq("OwnerID", ownerID)).First(&item)
	if err != nil {
		return nil, errors.Wrap(err, "could not find item by owner id")
	}
	return &item, nil
}
