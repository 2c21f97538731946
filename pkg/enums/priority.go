package enums

import "fmt"

// Priority orders reclamations by urgency; lower values are more urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3

	DefaultPriority = PriorityHigh
)

// IsValid reports whether the value is within the supported range.
func (p Priority) IsValid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// ParsePriority validates a raw integer priority.
func ParsePriority(value int) (Priority, error) {
	p := Priority(value)
	if !p.IsValid() {
		return 0, fmt.Errorf("invalid priority %d", value)
	}
	return p, nil
}
