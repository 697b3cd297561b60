package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mdouchement/itemlist/pkg/libil"
	"github.com/pkg/errors"
)

// shortID is the length of the displayed item IDs.
const shortID = 8

// Add creates an item with the given summary and priority.
func Add(summary, priority string) error {
	client, _, err := Connect()
	if err != nil {
		return err
	}

	item, err := client.CreateItem(summary, priority)
	if err != nil {
		return errors.Wrap(err, "could not create item")
	}

	Render(os.Stdout, []libil.Item{item})
	return nil
}

// List displays the items.
func List(all, completed bool) error {
	client, _, err := Connect()
	if err != nil {
		return err
	}

	items, err := client.ListItems(listOptions(all, completed))
	if err != nil {
		return errors.Wrap(err, "could not get items")
	}

	Render(os.Stdout, items)
	return nil
}

// Toggle flips the completion of the item referenced by the given ID or ID prefix.
func Toggle(ref string) error {
	client, _, err := Connect()
	if err != nil {
		return err
	}

	id, err := Resolve(client, ref)
	if err != nil {
		return err
	}

	item, err := client.ToggleItem(id)
	if err != nil {
		return errors.Wrap(err, "could not toggle item")
	}

	Render(os.Stdout, []libil.Item{item})
	return nil
}

// Delete removes the item referenced by the given ID or ID prefix.
func Delete(ref string) error {
	client, _, err := Connect()
	if err != nil {
		return err
	}

	id, err := Resolve(client, ref)
	if err != nil {
		return err
	}

	return errors.Wrap(client.DeleteItem(id), "could not delete item")
}

// Watch displays the items each time they change until ctx is done.
func Watch(ctx context.Context, all, completed bool) error {
	client, _, err := Connect()
	if err != nil {
		return err
	}

	err = client.Watch(ctx, listOptions(all, completed), func(items []libil.Item) error {
		fmt.Println()
		Render(os.Stdout, items)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return errors.Wrap(err, "could not watch items")
}

// Resolve returns the ID of the only item owned by the user whose ID starts with ref.
func Resolve(client libil.Client, ref string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return "", errors.New("no item ID provided")
	}

	items, err := client.ListItems(libil.ListOptions{Scope: libil.ScopeMine, Completed: true})
	if err != nil {
		return "", errors.Wrap(err, "could not get items")
	}

	var matches []string
	for _, item := range items {
		if item.ID == ref {
			return item.ID, nil
		}
		if strings.HasPrefix(item.ID, ref) {
			matches = append(matches, item.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", errors.Errorf("no item matches %s", ref)
	case 1:
		return matches[0], nil
	default:
		return "", errors.Errorf("%d items match %s", len(matches), ref)
	}
}

// Render writes the items as a table.
func Render(w io.Writer, items []libil.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tSUMMARY")
	for _, item := range items {
		done := " "
		if item.IsComplete {
			done = "x"
		}

		id := item.ID
		if len(id) > shortID {
			id = id[:shortID]
		}
		fmt.Fprintf(tw, "%s\t[%s]\t%s\t%s\n", id, done, item.Priority, item.Summary)
	}
	tw.Flush()
}

func listOptions(all, completed bool) libil.ListOptions {
	opts := libil.ListOptions{
		Scope:     libil.ScopeMine,
		Completed: completed,
	}
	if all {
		opts.Scope = libil.ScopeAll
	}
	return opts
}
