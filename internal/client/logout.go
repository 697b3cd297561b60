package client

import (
	"github.com/pkg/errors"
)

// Logout forgets the credentials of the itemlist server.
// Tokens are stateless so nothing is sent to the server, changing the password revokes them.
func Logout() error {
	return errors.Wrap(Remove(), "could not remove credential file")
}
