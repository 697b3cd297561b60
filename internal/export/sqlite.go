// Package export dumps the content of the database into portable formats.
package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE users (
	id                  TEXT PRIMARY KEY,
	email               TEXT NOT NULL UNIQUE,
	password_updated_at INTEGER NOT NULL,
	created_at          INTEGER NOT NULL,
	updated_at          INTEGER NOT NULL
);

CREATE TABLE items (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	summary     TEXT NOT NULL,
	priority    INTEGER NOT NULL,
	is_complete INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);

CREATE INDEX items_owner_id ON items (owner_id);
`

// Stats reports what has been exported.
type Stats struct {
	Users int
	Items int
}

// SQLite writes all the users (without their password) and items in a new SQLite file.
// Timestamps are stored as unix milliseconds.
// The export is built in a temporary file, filename only appears once complete
// and an existing file is never overwritten.
func SQLite(ctx context.Context, db database.Client, filename string) (stats Stats, err error) {
	if _, err = os.Stat(filename); err == nil {
		return stats, errors.Errorf("%s already exists", filename)
	}

	users, err := db.FindUsers()
	if err != nil && !db.IsNotFound(err) {
		return stats, errors.Wrap(err, "could not find users")
	}

	items, err := db.FindItems(database.ItemQuery{IncludeCompleted: true})
	if err != nil {
		return stats, errors.Wrap(err, "could not find items")
	}

	f, err := os.CreateTemp(filepath.Dir(filename), ".export-*.sqlite")
	if err != nil {
		return stats, errors.Wrap(err, "could not create temporary export file")
	}
	tmp := f.Name()
	f.Close()
	defer os.Remove(tmp) // Also removes the temporary name once linked.

	stats, err = write(ctx, tmp, users, items)
	if err != nil {
		return Stats{}, err
	}

	// Unlike a rename, a link fails when filename has been created meanwhile.
	if err = os.Link(tmp, filename); err != nil {
		if os.IsExist(err) {
			return Stats{}, errors.Errorf("%s already exists", filename)
		}
		return Stats{}, errors.Wrap(err, "could not finalize export")
	}

	logrus.WithFields(logrus.Fields{
		"users": stats.Users,
		"items": stats.Items,
	}).Info("database exported")
	return stats, nil
}

func write(ctx context.Context, filename string, users []*model.User, items []*model.Item) (stats Stats, err error) {
	sqldb, err := sql.Open("sqlite", filename)
	if err != nil {
		return stats, errors.Wrap(err, "could not open sqlite database")
	}
	defer sqldb.Close()

	tx, err := sqldb.BeginTx(ctx, nil)
	if err != nil {
		return stats, errors.Wrap(err, "could not begin transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback() // nolint:errcheck
		}
	}()

	if _, err = tx.ExecContext(ctx, schema); err != nil {
		return stats, errors.Wrap(err, "could not create schema")
	}

	//
	// Users

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO users (id, email, password_updated_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return stats, errors.Wrap(err, "could not prepare users statement")
	}
	defer stmt.Close()

	for _, user := range users {
		_, err = stmt.ExecContext(ctx, user.ID, user.Email, user.PasswordUpdatedAt, millis(user.CreatedAt), millis(user.UpdatedAt))
		if err != nil {
			return stats, errors.Wrapf(err, "could not export user %s", user.ID)
		}
		stats.Users++
	}

	//
	// Items

	stmt, err = tx.PrepareContext(ctx, "INSERT INTO items (id, owner_id, summary, priority, is_complete, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return stats, errors.Wrap(err, "could not prepare items statement")
	}
	defer stmt.Close()

	for _, item := range items {
		_, err = stmt.ExecContext(ctx, item.ID, item.OwnerID, item.Summary, int(item.Priority), item.IsComplete, millis(item.CreatedAt), millis(item.UpdatedAt))
		if err != nil {
			return stats, errors.Wrapf(err, "could not export item %s", item.ID)
		}
		stats.Items++
	}

	if err = tx.Commit(); err != nil {
		return stats, errors.Wrap(err, "could not commit export")
	}
	return stats, errors.Wrap(sqldb.Close(), "could not close sqlite database")
}

func millis(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UTC().UnixMilli()
}
