package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type binder struct {
	echo.DefaultBinder
	methodsWithBody map[string]bool
}

// NewBinder returns a strict binder: requests with a body must send a non-empty JSON payload.
// Other methods only bind path and query parameters, their body is ignored.
func NewBinder() echo.Binder {
	return &binder{
		methodsWithBody: map[string]bool{
			http.MethodPost:  true,
			http.MethodPatch: true,
			http.MethodPut:   true,
		},
	}
}

// Bind implements the echo.Bind interface.
func (b *binder) Bind(i any, c echo.Context) error {
	req := c.Request()
	if !b.methodsWithBody[req.Method] {
		if err := b.DefaultBinder.BindPathParams(c, i); err != nil {
			return err
		}
		return b.DefaultBinder.BindQueryParams(c, i)
	}

	if req.ContentLength == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Request body can't be empty")
	}

	if ctype := req.Header.Get(echo.HeaderContentType); !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Request body must be JSON")
	}

	return b.DefaultBinder.BindBody(c, i)
}
