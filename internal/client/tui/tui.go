package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/columns"
	"github.com/gcla/gowid/widgets/edit"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/pkg/libil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	focusList = iota
	focusInput
)

// A TUI is a text-based interface.
type TUI struct {
	App      *gowid.App
	client   libil.Client
	log      *logrus.Logger
	main     *pile.Widget
	frame    *framed.Widget
	list     *ItemList
	input    *edit.Widget
	priority *text.Widget
	status   *text.Widget
	clear    func(f func())

	mu       sync.Mutex
	selected model.Priority
	all      bool
	stop     context.CancelFunc
}

// New returns a new TUI.
func New(client libil.Client) (*TUI, error) {
	ui := &TUI{
		client:   client,
		log:      Logger(),
		selected: model.PriorityDefault,
		clear:    debounce.New(1200 * time.Millisecond),
	}

	app, err := gowid.NewApp(layout(ui))
	if err != nil {
		return ui, errors.Wrap(err, "could not create application widgets")
	}

	ui.App = app
	return ui, nil
}

// Run starts the application and thus the event loop.
func (ui *TUI) Run() {
	ui.watch()
	defer ui.unwatch()

	ui.App.MainLoop(gowid.UnhandledInputFunc(ui.unhandled))
}

// Cleanup cleans the application properly (in case of panic).
func (ui *TUI) Cleanup() {
	ui.App.GetScreen().Fini() // Cleanup tcell screen's objects
}

// DisplayStatus displays a message in the status bar (aka notifications).
// The message is cleared once no other message has been displayed for a while.
// It must not be called from the event loop.
func (ui *TUI) DisplayStatus(message string) {
	ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		ui.status.SetText(message, app)
	}))
	ui.clear(ui.clearStatus)
}

func (ui *TUI) clearStatus() {
	ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		ui.status.SetText("", app)
	}))
}

////////////////////
//                //
// Actions        //
//                //
////////////////////

// Create creates an item from the input field with the selected priority.
func (ui *TUI) Create(app gowid.IApp) {
	summary := strings.TrimSpace(ui.input.Text())
	if summary == "" {
		ui.status.SetText("No summary provided", app)
		ui.clear(ui.clearStatus)
		return
	}

	ui.input.SetText("", app)
	ui.input.SetCursorPos(0, app)

	priority := ui.Priority()
	go ui.perform("created", func() error {
		_, err := ui.client.CreateItem(summary, priority.String())
		return err
	})
}

// Toggle flips the completion of the given item.
func (ui *TUI) Toggle(item libil.Item) {
	go ui.perform("toggled", func() error {
		_, err := ui.client.ToggleItem(item.ID)
		return err
	})
}

// Delete removes the given item.
func (ui *TUI) Delete(item libil.Item) {
	go ui.perform("deleted", func() error {
		return ui.client.DeleteItem(item.ID)
	})
}

// Priority returns the priority used for the next created item.
func (ui *TUI) Priority() model.Priority {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	return ui.selected
}

// CyclePriority selects the next priority for the next created item.
func (ui *TUI) CyclePriority(app gowid.IApp) {
	ui.mu.Lock()
	ui.selected = ui.selected.Next()
	p := ui.selected
	ui.mu.Unlock()

	ui.priority.SetText(priorityLabel(p), app)
}

// ToggleScope switches between the user's items and all the items.
func (ui *TUI) ToggleScope(app gowid.IApp) {
	ui.mu.Lock()
	ui.all = !ui.all
	ui.mu.Unlock()

	ui.frame.SetTitle(ui.title(), app)
	ui.unwatch()
	ui.watch()
}

func (ui *TUI) perform(action string, f func() error) {
	if err := f(); err != nil {
		ui.log.WithError(err).Errorf("could not perform %s action", action)
		ui.DisplayStatus(err.Error())
		return
	}

	// The list is refreshed by the watch stream.
	ui.DisplayStatus(action)
}

////////////////////
//                //
// Live list      //
//                //
////////////////////

func (ui *TUI) watch() {
	ctx, cancel := context.WithCancel(context.Background())

	ui.mu.Lock()
	ui.stop = cancel
	opts := libil.ListOptions{Scope: libil.ScopeMine, Completed: true}
	if ui.all {
		opts.Scope = libil.ScopeAll
	}
	ui.mu.Unlock()

	go func() {
		for {
			err := ui.client.Watch(ctx, opts, func(items []libil.Item) error {
				ui.log.Debugf("received %d items: %s", len(items), dump(items))

				ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
					ui.list.Replace(items)
				}))
				return nil
			})

			if ctx.Err() != nil {
				return
			}

			ui.log.WithError(err).Warn("watch stream interrupted")
			if libil.IsUnauthorized(err) {
				ui.DisplayStatus("Session expired, please login again")
				return
			}
			ui.DisplayStatus("Connection lost, reconnecting...")

			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
		}
	}()
}

func (ui *TUI) unwatch() {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	if ui.stop != nil {
		ui.stop()
		ui.stop = nil
	}
}

func (ui *TUI) title() string {
	if ui.all {
		return "All items"
	}
	return "My items"
}

func priorityLabel(p model.Priority) string {
	return fmt.Sprintf(" %s ", strings.ToUpper(p.String()))
}

////////////////////
//                //
// Layout         //
//                //
////////////////////

func layout(ui *TUI) gowid.AppArgs {
	ui.list = NewItemList(ui)
	ui.frame = framed.New(ui.list, framed.Options{
		Frame: framed.UnicodeFrame,
		Title: ui.title(),
	})
	ui.input = edit.New(edit.Options{})
	ui.priority = text.New(priorityLabel(ui.selected))
	ui.status = text.New("")

	form := columns.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(ui.priority, gowid.MakePaletteRef("priority")),
			D:       gowid.RenderWithUnits{U: 10},
		},
		&gowid.ContainerWidget{
			IWidget: &input{Widget: ui.input, ui: ui},
			D:       gowid.RenderWithWeight{W: 1},
		},
	})

	ui.main = pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(ui.frame, gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 20},
		},
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(form), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithUnits{U: 3},
		},
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(ui.status), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithUnits{U: 3},
		},
	})

	return gowid.AppArgs{
		View: ui.main,
		Palette: &gowid.Palette{
			"mainpane": gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"priority": gowid.MakePaletteEntry(gowid.ColorBlack, gowid.ColorLightGray),
			// List style
			"normal":    gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"completed": gowid.MakePaletteEntry(gowid.ColorDarkGray, gowid.ColorBlack),
			"focused":   gowid.MakePaletteEntry(gowid.ColorBlack, gowid.ColorRed),
		},
		Log: ui.log,
	}
}

////////////////////
//                //
// Events         //
//                //
////////////////////

func (ui *TUI) unhandled(app gowid.IApp, ev any) bool {
	evk, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}

	handled := true

	switch evk.Key() {
	case tcell.KeyCtrlQ:
		app.Quit()
	case tcell.KeyCtrlP:
		ui.CyclePriority(app)
	case tcell.KeyCtrlS:
		ui.ToggleScope(app)
	case tcell.KeyTab:
		if ui.main.Focus() == focusList {
			ui.main.SetFocus(app, focusInput)
		} else {
			ui.main.SetFocus(app, focusList)
		}
	default:
		handled = false
	}

	return handled
}

// input is the summary field of the next created item.
type input struct {
	*edit.Widget
	ui *TUI
}

// UserInput implements gowid.IWidget
func (w *input) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	if evk, ok := ev.(*tcell.EventKey); ok && evk.Key() == tcell.KeyEnter {
		w.ui.Create(app)
		return true
	}
	return w.Widget.UserInput(ev, size, focus, app)
}
