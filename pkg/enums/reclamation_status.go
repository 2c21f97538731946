package enums

import (
	"fmt"
	"strings"
)

// ReclamationStatus tracks the progress of a reclamation. Any status can be
// set directly; there is no guarded transition order.
type ReclamationStatus string

const (
	ReclamationStatusNew        ReclamationStatus = "New"
	ReclamationStatusInProgress ReclamationStatus = "In Progress"
	ReclamationStatusDone       ReclamationStatus = "Done"
)

var validReclamationStatuses = []ReclamationStatus{
	ReclamationStatusNew,
	ReclamationStatusInProgress,
	ReclamationStatusDone,
}

// IsValid reports whether the value is a known ReclamationStatus.
func (s ReclamationStatus) IsValid() bool {
	for _, candidate := range validReclamationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseReclamationStatus converts raw input into a ReclamationStatus.
// "InProgress" and "in_progress" are accepted as aliases of "In Progress".
func ParseReclamationStatus(value string) (ReclamationStatus, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	for _, candidate := range validReclamationStatuses {
		if strings.ToLower(strings.ReplaceAll(string(candidate), " ", "")) == key {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reclamation status %q", value)
}
