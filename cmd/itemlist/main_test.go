package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeDrainsRequests(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	engine := echo.New()
	engine.GET("/slow", func(c echo.Context) error {
		close(started)
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
		return c.String(http.StatusOK, "done")
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closed atomic.Bool
	served := make(chan error, 1)
	go func() {
		served <- serve(ctx, engine, listener, 5*time.Second, func() { closed.Store(true) })
	}()

	type response struct {
		code int
		body string
		err  error
	}
	responses := make(chan response, 1)
	go func() {
		resp, err := http.Get("http://" + listener.Addr().String() + "/slow")
		if err != nil {
			responses <- response{err: err}
			return
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		responses <- response{code: resp.StatusCode, body: string(body), err: err}
	}()

	<-started
	cancel()

	select {
	case err := <-served:
		assert.NoError(t, err)
		assert.True(t, finished.Load(), "serve returned before the in-flight request completed")
		assert.True(t, closed.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	r := <-responses
	require.NoError(t, r.err)
	assert.Equal(t, http.StatusOK, r.code)
	assert.Equal(t, "done", r.body)
}

func TestServeListenerError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = serve(ctx, echo.New(), listener, time.Second, nil)
	assert.Error(t, err)
}
