package apierror_test

import (
	"net/http"
	"testing"

	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := apierror.New("some message")

	assert.Equal(t, "some message", err.Error())
	assert.Equal(t, http.StatusInternalServerError, apierror.StatusCode(err))
}

func TestStatusCode(t *testing.T) {
	err := apierror.NotFound("Item not found.")
	assert.Equal(t, http.StatusNotFound, apierror.StatusCode(err))
	assert.Equal(t, apierror.TagNotFound, err.Tag())

	wrapped := errors.Wrap(apierror.BadRequest("No summary provided."), "create item")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusCode(wrapped))

	assert.Equal(t, http.StatusUnauthorized, apierror.StatusCode(apierror.Unauthorized("nope")))
	assert.Equal(t, http.StatusInternalServerError, apierror.StatusCode(errors.New("boom")))
}
