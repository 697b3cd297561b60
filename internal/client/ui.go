package client

import (
	"fmt"
	"runtime"

	"github.com/mdouchement/itemlist/internal/client/tui"
	"github.com/pkg/errors"
)

// UI runs the text-based item list application.
func UI() error {
	defer func() {
		if r := recover(); r != nil {
			var err error
			switch r := r.(type) {
			case error:
				err = r
			default:
				err = fmt.Errorf("%v", r)
			}
			stack := make([]byte, 4<<10)
			length := runtime.Stack(stack, true)

			tui.Logger().Printf("[PANIC RECOVER] %s %s\n", err, stack[:length])
		}
	}()

	client, _, err := Connect()
	if err != nil {
		return err
	}

	//
	//

	ui, err := tui.New(client)
	if err != nil {
		return errors.Wrap(err, "could not create UI")
	}
	defer ui.Cleanup()

	ui.Run()
	return nil
}
