package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HTTPErrorHandler is a middleware that formats rendered errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	switch cause := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if cause.Internal != nil {
			logrus.WithError(cause.Internal).Warn("echo error")
		}
		_ = c.JSON(cause.Code, echo.Map{
			"error": echo.Map{
				"message": cause.Message,
			},
		})
	case *apierror.Error:
		status := apierror.StatusCode(cause)
		if status < 500 {
			_ = c.JSON(status, cause)
			return
		}

		internal(err, c)
	default:
		internal(err, c)
	}
}

func internal(err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	logrus.WithField("id", id).WithError(err).Error("unexpected error")

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": echo.Map{
			"message": fmt.Sprintf("Unexpected error (id: %s)", id),
		},
	})
}
