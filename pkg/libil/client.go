package libil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/pkg/errors"
)

type (
	// A Client defines all interactions that can be performed on an itemlist server.
	Client interface {
		// Version returns the version of the itemlist server.
		Version() (string, error)
		// Register creates an account on the itemlist server and connects the Client with it.
		Register(email, password string) (User, error)
		// Login connects the Client to the itemlist server.
		Login(email, password string) (User, error)
		// UpdatePassword changes the password of the connected user.
		// Previous tokens are revoked and the Client is connected with a new one.
		UpdatePassword(current, password string) error
		// BearerToken returns the JWT used for requests sent to the itemlist server.
		BearerToken() string
		// SetBearerToken sets the JWT used for requests sent to the itemlist server.
		SetBearerToken(token string)
		// CreateItem creates an item owned by the connected user.
		// An empty priority lets the server choose the default one.
		CreateItem(summary, priority string) (Item, error)
		// ListItems returns the items matching the given options.
		ListItems(opts ListOptions) ([]Item, error)
		// UpdateItem applies the given patch on the item.
		UpdateItem(id string, patch ItemPatch) (Item, error)
		// ToggleItem flips the completion of the item.
		ToggleItem(id string) (Item, error)
		// DeleteItem deletes the item.
		DeleteItem(id string) error
		// Watch calls fn with the list of items on connection and after each change.
		// It blocks until ctx is done, fn returns an error or the server closes the stream.
		Watch(ctx context.Context, opts ListOptions, fn func(items []Item) error) error
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string
		bearer   string
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{endpoint: endpoint, http: c}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Version() (string, error) {
	var version struct {
		Version string `json:"version"`
	}

	err := c.perform(http.MethodGet, "/version", nil, nil, &version)
	return version.Version, err
}

func (c *client) Register(email, password string) (User, error) {
	return c.authenticate("/auth", p{"email": email, "password": password})
}

func (c *client) Login(email, password string) (User, error) {
	return c.authenticate("/auth/sign_in", p{"email": email, "password": password})
}

func (c *client) UpdatePassword(current, password string) error {
	_, err := c.authenticate("/auth/change_pw", p{"current_password": current, "new_password": password})
	return err
}

func (c *client) authenticate(endpoint string, params p) (User, error) {
	var auth struct {
		User  User   `json:"user"`
		Token string `json:"token"`
	}

	if err := c.perform(http.MethodPost, endpoint, nil, params, &auth); err != nil {
		return auth.User, err
	}

	c.bearer = auth.Token
	return auth.User, nil
}

func (c *client) BearerToken() string {
	return c.bearer
}

func (c *client) SetBearerToken(token string) {
	c.bearer = token
}

func (c *client) CreateItem(summary, priority string) (Item, error) {
	var item Item
	err := c.perform(http.MethodPost, "/items", nil, p{"summary": summary, "priority": priority}, &item)
	return item, err
}

func (c *client) ListItems(opts ListOptions) ([]Item, error) {
	var list struct {
		Data []Item `json:"data"`
	}

	err := c.perform(http.MethodGet, "/items", opts.query(), nil, &list)
	return list.Data, err
}

func (c *client) UpdateItem(id string, patch ItemPatch) (Item, error) {
	var item Item
	err := c.perform(http.MethodPatch, path.Join("/items", id), nil, patch, &item)
	return item, err
}

func (c *client) ToggleItem(id string) (Item, error) {
	var item Item
	err := c.perform(http.MethodPost, path.Join("/items", id, "toggle"), nil, nil, &item)
	return item, err
}

func (c *client) DeleteItem(id string) error {
	return c.perform(http.MethodDelete, path.Join("/items", id), nil, nil, nil)
}

func (c *client) url(endpoint string, query url.Values) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, endpoint)
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// perform sends a JSON request and decodes the response into out when not nil.
func (c *client) perform(method, endpoint string, query url.Values, payload, out any) error {
	u, err := c.url(endpoint, query)
	if err != nil {
		return err
	}

	//
	// Build request
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "could not serialize payload")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.bearer))
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseError(res.Body, res.StatusCode)
	}

	//
	// Process response
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(out), "could not parse response")
}

func (o ListOptions) query() url.Values {
	query := url.Values{}
	if o.Scope != "" {
		query.Set("scope", o.Scope)
	}
	if o.Completed {
		query.Set("completed", strconv.FormatBool(o.Completed))
	}
	return query
}
