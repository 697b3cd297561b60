package tui

import (
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/list"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/itemlist/pkg/libil"
)

// An ItemList is a list of Items to interract with.
// It implements gowid.IWidget by delegating to its presentation.
type ItemList struct {
	ui           *TUI
	presentation list.IWidget
	abstraction  *itemListAbstraction
}

// NewItemList returns a new ItemList.
func NewItemList(ui *TUI) *ItemList {
	abs := newItemListAbstraction()

	return &ItemList{
		ui:           ui,
		presentation: list.New(abs),
		abstraction:  abs,
	}
}

// Replace replaces the displayed items, keeping the focus on the same item when possible.
func (w *ItemList) Replace(items []libil.Item) {
	w.abstraction.Replace(items)
}

// Focused returns the focused item.
func (w *ItemList) Focused() (libil.Item, bool) {
	item, ok := w.abstraction.At(w.abstraction.Focus()).(*Item)
	if !ok {
		return libil.Item{}, false
	}
	return item.abstraction, true
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *ItemList) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *ItemList) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *ItemList) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	if evk, ok := ev.(*tcell.EventKey); ok {
		item, focused := w.Focused()

		switch {
		case !focused:
		case evk.Key() == tcell.KeyEnter, evk.Key() == tcell.KeyRune && evk.Rune() == ' ':
			w.ui.Toggle(item)
			return true
		case evk.Key() == tcell.KeyDelete, evk.Key() == tcell.KeyRune && evk.Rune() == 'd':
			w.ui.Delete(item)
			return true
		}
	}

	return w.presentation.UserInput(ev, size, focus, app)
}

// Selectable implements gowid.IWidget
func (w *ItemList) Selectable() bool {
	return w.presentation.Selectable()
}

////////////////////
//                //
// Abstraction    //
//                //
////////////////////

// A itemListAbstraction is a list of Items to interract with.
// It implements list.IWalker interface.
type itemListAbstraction struct {
	widgets []*Item
	focus   list.ListPos
}

func newItemListAbstraction() *itemListAbstraction {
	return &itemListAbstraction{
		widgets: make([]*Item, 0),
		focus:   0,
	}
}

func (w *itemListAbstraction) Replace(items []libil.Item) {
	var focused string
	if w.Length() > 0 && int(w.focus) < w.Length() {
		focused = w.widgets[w.focus].ID
	}

	w.widgets = make([]*Item, 0, len(items))
	for _, item := range items {
		w.widgets = append(w.widgets, NewItem(item))
	}

	for i, item := range w.widgets {
		if item.ID == focused {
			w.focus = list.ListPos(i)
			return
		}
	}

	// The focused item has been removed.
	if int(w.focus) >= w.Length() {
		w.focus = list.ListPos(w.Length() - 1)
	}
	if w.focus < 0 {
		w.focus = 0
	}
}

func (w *itemListAbstraction) ItemAt(i int) *Item {
	return w.widgets[i]
}

func (w *itemListAbstraction) First() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(0)
}

func (w *itemListAbstraction) Last() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(len(w.widgets) - 1)
}

func (w *itemListAbstraction) Length() int {
	return len(w.widgets)
}

func (w *itemListAbstraction) At(pos list.IWalkerPosition) gowid.IWidget {
	var res gowid.IWidget
	ipos := int(pos.(list.ListPos))
	if ipos >= 0 && ipos < w.Length() {
		res = w.widgets[ipos]
	}
	return res
}

func (w *itemListAbstraction) Focus() list.IWalkerPosition {
	return w.focus
}

func (w *itemListAbstraction) SetFocus(focus list.IWalkerPosition, app gowid.IApp) {
	w.focus = focus.(list.ListPos)
}

func (w *itemListAbstraction) Next(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if int(pos) == w.Length()-1 {
		return list.ListPos(-1)
	}
	return pos + 1
}

func (w *itemListAbstraction) Previous(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if pos-1 == -1 {
		return list.ListPos(-1)
	}
	return pos - 1
}
