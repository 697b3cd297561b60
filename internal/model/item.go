package model

// A Item represents a database record and the rendered API response.
type Item struct {
	Base `msgpack:",inline" storm:"inline"`

	Summary    string   `json:"summary"    msgpack:"summary"`
	Priority   Priority `json:"priority"   msgpack:"priority"    storm:"index"`
	OwnerID    string   `json:"owner_id"   msgpack:"owner_id"    storm:"index"`
	IsComplete bool     `json:"isComplete" msgpack:"is_complete" storm:"index"`
}

// NewItem returns a new incomplete item owned by the given owner.
func NewItem(summary string, priority Priority, ownerID string) *Item {
	return &Item{
		Summary:  summary,
		Priority: priority,
		OwnerID:  ownerID,
	}
}

// OwnedBy returns true if the item belongs to the given owner.
func (i *Item) OwnedBy(ownerID string) bool {
	return ownerID != "" && i.OwnerID == ownerID
}
