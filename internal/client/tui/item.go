package tui

import (
	"fmt"
	"strings"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/selectable"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/mdouchement/itemlist/pkg/libil"
)

// An Item is the graphical representation of an libil.Item.
type Item struct {
	ID           string
	presentation gowid.IWidget
	abstraction  libil.Item
}

// NewItem returns a new Item.
func NewItem(item libil.Item) *Item {
	normal, focused := "normal", "focused"
	if item.IsComplete {
		normal = "completed"
	}

	return &Item{
		ID: item.ID,
		presentation: selectable.New(
			styled.NewExt(
				text.New(Line(item)),
				gowid.MakePaletteRef(normal), gowid.MakePaletteRef(focused),
			),
		),
		abstraction: item,
	}
}

// Line returns the displayed line of the given item.
func Line(item libil.Item) string {
	done := " "
	if item.IsComplete {
		done = "x"
	}
	return fmt.Sprintf("[%s] %-6s %s", done, strings.ToUpper(item.Priority), item.Summary)
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *Item) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *Item) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *Item) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	return w.presentation.UserInput(ev, size, focus, app)
}

// Selectable implements gowid.IWidget
func (w *Item) Selectable() bool {
	return w.presentation.Selectable()
}
