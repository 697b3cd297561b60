package server_test

import (
	"net/http"
	"testing"

	"github.com/appleboy/gofight/v2"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestRequestItemsUnauthenticated(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/items").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-auth","message":"Invalid login credentials."}}`, r.Body.String())
	})

	r.POST("/items").SetJSON(gofight.D{"summary": "Buy milk"}).SetHeader(gofight.H{
		"Authorization": "Bearer not.a.token",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-auth","message":"Invalid login credentials."}}`, r.Body.String())
	})
}

func TestRequestCreateItem(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	user := createUser(ctrl, "george.abitbol@nowhere.lan")
	header := authHeader(ctrl, user)

	r.POST("/items").SetHeader(header).SetJSON(gofight.D{"summary": "  "}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-parameter","message":"No summary provided."}}`, r.Body.String())
	})

	r.POST("/items").SetHeader(header).SetJSON(gofight.D{"summary": "Buy milk", "priority": "urgent"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-parameter","message":"Unknown priority."}}`, r.Body.String())
	})

	r.POST("/items").SetHeader(header).SetJSON(gofight.D{"summary": "Buy milk", "priority": "high"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.NotEmpty(t, string(v.GetStringBytes("id")))
		assert.Equal(t, "Buy milk", string(v.GetStringBytes("summary")))
		assert.Equal(t, "high", string(v.GetStringBytes("priority")))
		assert.Equal(t, user.ID, string(v.GetStringBytes("owner_id")))
		assert.False(t, v.GetBool("isComplete"))

		item, err := ctrl.Database.FindItem(string(v.GetStringBytes("id")))
		assert.NoError(t, err)
		assert.Equal(t, model.PriorityHigh, item.Priority)
		assert.Equal(t, user.ID, item.OwnerID)
	})

	r.POST("/items").SetHeader(header).SetJSON(gofight.D{"summary": "Water plants"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "medium", string(v.GetStringBytes("priority")))
	})

	r.POST("/items").SetHeader(header).SetJSON(gofight.D{"summary": "Buy milk", "priority": 0}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "severe", string(v.GetStringBytes("priority")))
	})

	r.POST("/items").SetHeader(header).SetJSON(gofight.D{"summary": "Buy milk", "priority": 1.5}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-parameter","message":"Unknown priority."}}`, r.Body.String())
	})
}

func TestRequestListItems(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	george := createUser(ctrl, "george.abitbol@nowhere.lan")
	peter := createUser(ctrl, "peter.sellers@nowhere.lan")

	items := []*model.Item{
		model.NewItem("Low", model.PriorityLow, george.ID),
		model.NewItem("Severe", model.PrioritySevere, george.ID),
		model.NewItem("Done", model.PriorityHigh, george.ID),
		model.NewItem("Peter's", model.PriorityMedium, peter.ID),
	}
	items[2].IsComplete = true
	for _, item := range items {
		assert.NoError(t, ctrl.Database.Save(item))
	}

	summaries := func(body string) (s []string) {
		v, err := fastjson.Parse(body)
		assert.NoError(t, err)
		for _, item := range v.GetArray("data") {
			s = append(s, string(item.GetStringBytes("summary")))
		}
		return s
	}

	header := authHeader(ctrl, george)

	r.GET("/items").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Equal(t, []string{"Severe", "Low"}, summaries(r.Body.String()))
	})

	r.GET("/items?completed=true").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Equal(t, []string{"Severe", "Done", "Low"}, summaries(r.Body.String()))
	})

	r.GET("/items?scope=all").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Equal(t, []string{"Severe", "Peter's", "Low"}, summaries(r.Body.String()))
	})

	r.GET("/items?scope=theirs").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-parameter","message":"Unknown scope."}}`, r.Body.String())
	})

	r.GET("/items").SetHeader(authHeader(ctrl, createUser(ctrl, "nobody@nowhere.lan"))).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"data":[]}`, r.Body.String())
	})
}

func TestRequestListItemsIgnoresBody(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	user := createUser(ctrl, "george.abitbol@nowhere.lan")
	assert.NoError(t, ctrl.Database.Save(model.NewItem("Buy milk", model.PriorityLow, user.ID)))

	r.GET("/items?scope=mine").SetHeader(authHeader(ctrl, user)).SetJSON(gofight.D{"scope": "theirs"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Len(t, v.GetArray("data"), 1)
	})
}

func TestRequestUpdateItem(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	user := createUser(ctrl, "george.abitbol@nowhere.lan")
	header := authHeader(ctrl, user)

	item := model.NewItem("Buy milk", model.PriorityLow, user.ID)
	assert.NoError(t, ctrl.Database.Save(item))

	r.PATCH("/items/"+item.ID).SetHeader(header).SetBody(`[]`).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Could not get item params."}}`, r.Body.String())
	})

	r.PATCH("/items/"+item.ID).SetHeader(header).SetBody(`{"isComplete":"yes"}`).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
	})

	r.PATCH("/items/"+item.ID).SetHeader(header).SetBody(`{"priority":0}`).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "Buy milk", string(v.GetStringBytes("summary")))
		assert.Equal(t, "severe", string(v.GetStringBytes("priority")))
		assert.False(t, v.GetBool("isComplete"))
	})

	r.PATCH("/items/"+item.ID).SetHeader(header).SetBody(`{"summary":"Buy oat milk","isComplete":true}`).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "Buy oat milk", string(v.GetStringBytes("summary")))
		assert.Equal(t, "severe", string(v.GetStringBytes("priority")))
		assert.True(t, v.GetBool("isComplete"))
	})

	r.PATCH("/items/"+item.ID).SetHeader(header).SetBody(`{"summary":""}`).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-parameter","message":"No summary provided."}}`, r.Body.String())
	})

	stored, err := ctrl.Database.FindItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Buy oat milk", stored.Summary)
	assert.True(t, stored.IsComplete)
}

func TestRequestToggleItem(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	user := createUser(ctrl, "george.abitbol@nowhere.lan")
	header := authHeader(ctrl, user)

	item := model.NewItem("Buy milk", model.PriorityLow, user.ID)
	assert.NoError(t, ctrl.Database.Save(item))

	for _, expected := range []bool{true, false} {
		r.POST("/items/"+item.ID+"/toggle").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			v, err := fastjson.Parse(r.Body.String())
			assert.NoError(t, err)
			assert.Equal(t, expected, v.GetBool("isComplete"))
		})
	}

	r.POST("/items/unknown/toggle").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"not-found","message":"Item not found."}}`, r.Body.String())
	})
}

func TestRequestDeleteItem(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	george := createUser(ctrl, "george.abitbol@nowhere.lan")
	peter := createUser(ctrl, "peter.sellers@nowhere.lan")

	item := model.NewItem("Buy milk", model.PriorityLow, george.ID)
	assert.NoError(t, ctrl.Database.Save(item))

	r.DELETE("/items/"+item.ID).SetHeader(authHeader(ctrl, peter)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"not-found","message":"Item not found."}}`, r.Body.String())
	})

	r.DELETE("/items/"+item.ID).SetHeader(authHeader(ctrl, george)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
		assert.Empty(t, r.Body.String())
	})

	_, err := ctrl.Database.FindItem(item.ID)
	assert.True(t, ctrl.Database.IsNotFound(err))

	r.DELETE("/items/"+item.ID).SetHeader(authHeader(ctrl, george)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
	})
}
