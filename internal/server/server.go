package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/internal/notify"
	"github.com/mdouchement/itemlist/internal/server/middlewares"
	"github.com/mdouchement/itemlist/internal/server/session"
)

// A Controller is an Iversion Of Control pattern used to init the server package.
type Controller struct {
	Version        string
	Database       database.Client
	NoRegistration bool
	// Notifications is the hub fed by the database with committed item changes.
	// The watch endpoint is disabled when nil.
	Notifications *notify.Hub
	// JWT params
	SigningKey          []byte
	TokenExpirationTime time.Duration
	// Delay between two keep-alive comments sent on watch streams.
	KeepAlive time.Duration
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/items/watch" // Event streams must be flushed as is.
		},
	}))

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	sessions := session.NewManager(
		ctrl.Database,
		ctrl.SigningKey,
		ctrl.TokenExpirationTime,
	)

	router := engine.Group("")
	// Applied per route, a group middleware would answer 401 to unknown paths.
	authenticated := middlewares.Session(sessions)

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// auth handlers
	//
	auth := &auth{
		db:       ctrl.Database,
		sessions: sessions,
	}
	if !ctrl.NoRegistration {
		router.POST("/auth", auth.Register)
	}
	router.POST("/auth/sign_in", auth.Login)
	router.POST("/auth/change_pw", auth.UpdatePassword, authenticated)

	//
	// item handlers
	//
	item := &item{
		db:        ctrl.Database,
		hub:       ctrl.Notifications,
		keepalive: ctrl.KeepAlive,
	}
	router.GET("/items", item.List, authenticated)
	router.POST("/items", item.Create, authenticated)
	if ctrl.Notifications != nil {
		router.GET("/items/watch", item.Watch, authenticated)
	}
	router.PATCH("/items/:id", item.Update, authenticated)
	router.POST("/items/:id/toggle", item.Toggle, authenticated)
	router.DELETE("/items/:id", item.Delete, authenticated)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUser(c echo.Context) *model.User {
	user, ok := c.Get(middlewares.CurrentUserContextKey).(*model.User)
	if ok {
		return user
	}
	return nil
}
