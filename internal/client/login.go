package client

import (
	"fmt"

	"github.com/chzyer/readline"
	"github.com/mdouchement/itemlist/pkg/libil"
	"github.com/pkg/errors"
)

// Login connects to an itemlist server.
// The account is created before when register is true.
func Login(register bool) error {
	cfg := Config{}

	endpoint, err := readline.Line("Endpoint: ")
	if err != nil {
		return errors.Wrap(err, "could not read endpoint from stdin")
	}
	cfg.Endpoint = endpoint

	client, err := libil.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach given endpoint")
	}

	version, err := client.Version()
	if err != nil {
		return errors.Wrap(err, "could not reach given endpoint")
	}
	fmt.Println("Server version:", version)

	cfg.Email, err = readline.Line("Email: ")
	if err != nil {
		return errors.Wrap(err, "could not read email from stdin")
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}

	authenticate := client.Login
	if register {
		authenticate = client.Register
	}

	user, err := authenticate(cfg.Email, string(password))
	if err != nil {
		return errors.Wrap(err, "could not login")
	}
	cfg.UserID = user.ID
	cfg.BearerToken = client.BearerToken()

	return Save(cfg)
}
