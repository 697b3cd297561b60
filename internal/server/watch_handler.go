package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/mdouchement/itemlist/internal/server/serializer"
	"github.com/mdouchement/itemlist/internal/service"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EventItems is the name of the server-sent event carrying an item list.
const EventItems = "items"

const defaultKeepAlive = 30 * time.Second

///// Watch
////
//

// Watch streams the item list as server-sent events.
// The list is sent on connection and each time a burst of changes has been committed.
func (h *item) Watch(c echo.Context) error {
	var params service.ListParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get listing params."))
	}

	user := currentUser(c)
	list := service.NewItemList(h.db, user)

	owner := user.ID
	if params.Scope == service.ScopeAll {
		owner = ""
	}

	// Subscribed before the first snapshot so no commit falls in between.
	// A change already included in the snapshot only triggers a redundant one.
	sub := h.hub.Subscribe(owner)
	defer sub.Unsubscribe()

	// Validates params before starting the stream.
	items, err := list.List(params)
	if err != nil {
		return err
	}

	keepalive := h.keepalive
	if keepalive <= 0 {
		keepalive = defaultKeepAlive
	}
	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	log := logrus.WithField("user", user.ID)
	if err = writeEvent(res, EventItems, serializer.Items(items)); err != nil {
		log.WithError(err).Debug("watch stream closed")
		return nil
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err = fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case _, ok := <-sub.C():
			if !ok {
				return nil // Server is shutting down.
			}

			items, err = list.List(params)
			if err != nil {
				log.WithError(err).Error("could not list items for watch stream")
				return nil
			}

			if err = writeEvent(res, EventItems, serializer.Items(items)); err != nil {
				log.WithError(err).Debug("watch stream closed")
				return nil
			}
		}
	}
}

func writeEvent(res *echo.Response, event string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "could not serialize event")
	}

	if _, err = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return errors.Wrap(err, "could not write event")
	}
	res.Flush()
	return nil
}
