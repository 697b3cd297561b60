package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Priority is the urgency level of an item.
// Lower values are more urgent.
type Priority int

const (
	// PrioritySevere is the most urgent level.
	PrioritySevere Priority = iota
	// PriorityHigh is an urgent level.
	PriorityHigh
	// PriorityMedium is the default level.
	PriorityMedium
	// PriorityLow is the least urgent level.
	PriorityLow
)

// PriorityDefault is used when no priority is provided.
const PriorityDefault = PriorityMedium

// ErrUnknownPriority is returned when a priority can't be parsed.
var ErrUnknownPriority = errors.New("unknown priority")

var priorityNames = [...]string{"severe", "high", "medium", "low"}

// Priorities returns all the levels from the most to the least urgent.
func Priorities() []Priority {
	return []Priority{PrioritySevere, PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority parses a level name (case-insensitive) or its numeric form.
// A blank value yields PriorityDefault.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityDefault, nil
	}

	for i, name := range priorityNames {
		if s == name {
			return Priority(i), nil
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return PriorityDefault, errors.Wrapf(ErrUnknownPriority, "%q", s)
	}

	p := Priority(n)
	if !p.Valid() {
		return PriorityDefault, errors.Wrapf(ErrUnknownPriority, "%q", s)
	}
	return p, nil
}

// Valid returns true if p is a known level.
func (p Priority) Valid() bool {
	return p >= PrioritySevere && p <= PriorityLow
}

// Next returns the following level, wrapping around after PriorityLow.
func (p Priority) Next() Priority {
	if !p.Valid() {
		return PriorityDefault
	}
	return (p + 1) % Priority(len(priorityNames))
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	if !p.Valid() {
		return "priority(" + strconv.Itoa(int(p)) + ")"
	}
	return priorityNames[p]
}

// MarshalJSON implements json.Marshaler.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.Wrapf(ErrUnknownPriority, "%d", int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler.
// Both the level name and its numeric form are accepted.
func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p, err = ParsePriority(s)
		return err
	}

	// Decoded as a literal so 1.5 or 1e3 are rejected like their string forms.
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrapf(ErrUnknownPriority, "%s", b)
	}

	var err error
	*p, err = ParsePriority(n.String())
	return err
}
