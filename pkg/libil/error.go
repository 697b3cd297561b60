package libil

import (
	"encoding/json"
	"io"
	"net/http"
)

// An Error reprensents an HTTP error returned by itemlist server.
type Error struct {
	StatusCode int
	Err        struct {
		Tag     string `json:"tag"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseError(r io.Reader, code int) error {
	var apierr Error
	dec := json.NewDecoder(r)
	if err := dec.Decode(&apierr); err != nil {
		apierr.Err.Message = http.StatusText(code)
	}
	apierr.StatusCode = code
	return &apierr
}

func (e *Error) Error() string {
	return e.Err.Message
}

// IsNotFound returns true if err is an Error caused by a missing item.
func IsNotFound(err error) bool {
	apierr, ok := err.(*Error)
	return ok && apierr.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if err is an Error caused by invalid credentials or token.
func IsUnauthorized(err error) bool {
	apierr, ok := err.(*Error)
	return ok && apierr.StatusCode == http.StatusUnauthorized
}
