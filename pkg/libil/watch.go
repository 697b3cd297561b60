package libil

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// EventItems is the name of the event carrying the item list.
const EventItems = "items"

// An event is a server-sent event.
type event struct {
	name string
	data bytes.Buffer
}

func (c *client) Watch(ctx context.Context, opts ListOptions, fn func(items []Item) error) error {
	u, err := c.url("/items/watch", opts.query())
	if err != nil {
		return err
	}

	//
	// Build request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Header.Add("Accept", "text/event-stream")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.bearer))

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseError(res.Body, res.StatusCode)
	}

	//
	// Process stream
	var ev event
	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()

		switch {
		case len(line) == 0:
			// Dispatch
			if ev.name == EventItems && ev.data.Len() > 0 {
				var list struct {
					Data []Item `json:"data"`
				}
				if err = json.Unmarshal(ev.data.Bytes(), &list); err != nil {
					return errors.Wrap(err, "could not parse event")
				}

				if err = fn(list.Data); err != nil {
					return err
				}
			}
			ev.name = ""
			ev.data.Reset()
		case line[0] == ':':
			// Comment (keep-alive)
		default:
			field, value, _ := bytes.Cut(line, []byte(":"))
			value = bytes.TrimPrefix(value, []byte(" "))

			switch string(field) {
			case "event":
				ev.name = string(value)
			case "data":
				if ev.data.Len() > 0 {
					ev.data.WriteByte('\n')
				}
				ev.data.Write(value)
			}
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.Wrap(scanner.Err(), "could not read stream")
}
