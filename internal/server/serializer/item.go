package serializer

import "github.com/mdouchement/itemlist/internal/model"

// Items serializes the render of a list of items.
// A nil list is rendered as an empty list.
func Items(m []*model.Item) any {
	if m == nil {
		m = []*model.Item{}
	}
	return Global(m)
}
