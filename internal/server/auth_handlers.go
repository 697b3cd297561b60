package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/internal/server/serializer"
	"github.com/mdouchement/itemlist/internal/server/session"
	"github.com/mdouchement/itemlist/internal/service"
	"github.com/sirupsen/logrus"
)

// auth contains all authentication handlers.
type auth struct {
	db       database.Client
	sessions session.Manager
}

///// Register
////
//

// Register handler is used to register the user.
func (h *auth) Register(c echo.Context) error {
	// Filter params
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.New("Could not get user's params."))
	}

	user, err := service.NewUsers(h.db).Register(params)
	if err != nil {
		return unauthorizedOnAPIError(c, err)
	}

	return h.authenticated(c, user)
}

///// Login
////
//

// Login used for authenticates a user and returns a JWT.
func (h *auth) Login(c echo.Context) error {
	// Filter params
	var params service.LoginParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Info("could not get parameters")
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get credentials."))
	}

	user, err := service.NewUsers(h.db).Login(params)
	if err != nil {
		return err
	}

	return h.authenticated(c, user)
}

///// Update Password
////
//

// UpdatePassword used to updates a user's password.
// All the tokens issued before are revoked so a new one is returned.
func (h *auth) UpdatePassword(c echo.Context) error {
	// Filter params
	var params service.UpdatePasswordParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Info("could not get parameters")
		return c.JSON(http.StatusUnauthorized, apierror.New("Could not get parameters."))
	}

	user, err := service.NewUsers(h.db).UpdatePassword(currentUser(c), params)
	if err != nil {
		return err
	}

	return h.authenticated(c, user)
}

func (h *auth) authenticated(c echo.Context, user *model.User) error {
	token, err := h.sessions.Token(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":  serializer.User(user),
		"token": token,
	})
}

// unauthorizedOnAPIError renders params errors without status as Unauthorized.
func unauthorizedOnAPIError(c echo.Context, err error) error {
	if apierr, ok := err.(*apierror.Error); ok && apierr.HTTPCode == 0 {
		return c.JSON(http.StatusUnauthorized, apierr)
	}
	return err
}
