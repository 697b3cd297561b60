package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/notify"
	"github.com/mdouchement/itemlist/internal/server/serializer"
	"github.com/mdouchement/itemlist/internal/service"
	"github.com/valyala/fastjson"
)

// item contains all item handlers.
type item struct {
	db        database.Client
	hub       *notify.Hub
	keepalive time.Duration
}

///// List
////
//

// List renders the items visible in the requested scope.
func (h *item) List(c echo.Context) error {
	var params service.ListParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get listing params."))
	}

	items, err := service.NewItemList(h.db, currentUser(c)).List(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Items(items))
}

///// Create
////
//

// Create creates an item owned by the current user.
func (h *item) Create(c echo.Context) error {
	var params service.CreateItemParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get item params."))
	}

	item, err := service.NewItemList(h.db, currentUser(c)).Create(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, item)
}

///// Update
////
//

// Update applies the fields present in the request body.
// Absent fields are left untouched, so `{"isComplete":false}` differs from `{}`.
func (h *item) Update(c echo.Context) error {
	params, err := updateParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}

	item, err := service.NewItemList(h.db, currentUser(c)).Update(c.Param("id"), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

func updateParams(c echo.Context) (params service.UpdateItemParams, err error) {
	invalid := apierror.New("Could not get item params.")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil || len(body) == 0 {
		return params, invalid
	}

	v, err := fastjson.ParseBytes(body)
	if err != nil || v.Type() != fastjson.TypeObject {
		return params, invalid
	}

	if f := v.Get("summary"); f != nil {
		s, err := f.StringBytes()
		if err != nil {
			return params, invalid
		}
		summary := string(s)
		params.Summary = &summary
	}

	if f := v.Get("priority"); f != nil {
		var priority string
		switch f.Type() {
		case fastjson.TypeString:
			priority = string(f.GetStringBytes())
		case fastjson.TypeNumber:
			n, err := f.Int()
			if err != nil {
				return params, invalid
			}
			priority = strconv.Itoa(n)
		default:
			return params, invalid
		}
		params.Priority = &priority
	}

	if f := v.Get("isComplete"); f != nil {
		complete, err := f.Bool()
		if err != nil {
			return params, invalid
		}
		params.IsComplete = &complete
	}

	return params, nil
}

///// Toggle
////
//

// Toggle flips the completion of an item.
func (h *item) Toggle(c echo.Context) error {
	item, err := service.NewItemList(h.db, currentUser(c)).Toggle(c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

///// Delete
////
//

// Delete removes an item.
func (h *item) Delete(c echo.Context) error {
	err := service.NewItemList(h.db, currentUser(c)).Delete(c.Param("id"))
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
