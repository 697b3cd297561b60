package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mdouchement/itemlist/pkg/libil"
	"github.com/pkg/errors"
)

// A Dump is the content of a backup file.
type Dump struct {
	ExportedAt time.Time    `json:"exported_at"`
	Endpoint   string       `json:"endpoint"`
	Email      string       `json:"email"`
	Scope      string       `json:"scope"`
	Items      []libil.Item `json:"items"`
}

// Backup fetches the items (completed ones included) and writes them as JSON in dir.
// It returns the path of the created file.
func Backup(dir string, all bool) (string, error) {
	client, cfg, err := Connect()
	if err != nil {
		return "", err
	}

	opts := libil.ListOptions{Scope: libil.ScopeMine, Completed: true}
	if all {
		opts.Scope = libil.ScopeAll
	}

	items, err := client.ListItems(opts)
	if err != nil {
		return "", errors.Wrap(err, "could not get items")
	}

	now := time.Now()
	dump := Dump{
		ExportedAt: now.UTC(),
		Endpoint:   cfg.Endpoint,
		Email:      cfg.Email,
		Scope:      opts.Scope,
		Items:      items,
	}

	filename := filepath.Join(dir, fmt.Sprintf("items_%s.json", now.Format("20060102150405")))
	return filename, writeDump(dump, filename)
}

// writeDump writes v through a temporary file renamed once synced,
// so an interrupted backup never leaves a truncated file behind.
func writeDump(v any, filename string) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize backup")
	}

	f, err := os.CreateTemp(filepath.Dir(filename), ".backup-*")
	if err != nil {
		return errors.Wrap(err, "could not create backup file")
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op once renamed

	if _, err = f.Write(payload); err != nil {
		f.Close()
		return errors.Wrap(err, "could not write backup")
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "could not sync backup")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "could not close backup")
	}

	return errors.Wrap(os.Rename(tmp, filename), "could not finalize backup")
}
