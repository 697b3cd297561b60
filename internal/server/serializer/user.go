package serializer

import "github.com/mdouchement/itemlist/internal/model"

// User serializes the render of a user.
func User(m *model.User) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"created_at": m.CreatedAt.UTC(),
		"updated_at": m.UpdatedAt.UTC(),
		"email":      m.Email,
	}
}
