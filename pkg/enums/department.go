package enums

import (
	"fmt"
	"strings"
)

// Department is a hotel organizational unit used both to route reclamations
// and to scope what staff accounts can see.
type Department string

const (
	DepartmentCleaning    Department = "Cleaning"
	DepartmentReception   Department = "Reception"
	DepartmentMaintenance Department = "Maintenance"
	DepartmentSecurity    Department = "Security"
	DepartmentCatering    Department = "Catering"
	DepartmentKitchen     Department = "Kitchen"
	DepartmentLaundry     Department = "Laundry"
	DepartmentSpa         Department = "Spa"
	DepartmentIT          Department = "IT"
	DepartmentManagement  Department = "Management"
)

var validDepartments = []Department{
	DepartmentCleaning,
	DepartmentReception,
	DepartmentMaintenance,
	DepartmentSecurity,
	DepartmentCatering,
	DepartmentKitchen,
	DepartmentLaundry,
	DepartmentSpa,
	DepartmentIT,
	DepartmentManagement,
}

// Departments returns the canonical department list.
func Departments() []Department {
	return append([]Department(nil), validDepartments...)
}

// IsValid reports whether the value is a known Department.
func (d Department) IsValid() bool {
	for _, candidate := range validDepartments {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDepartment converts raw input into a Department, ignoring case.
func ParseDepartment(value string) (Department, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validDepartments {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid department %q", value)
}

// NormalizeDepartments parses every value and drops duplicates while keeping
// the first-seen order.
func NormalizeDepartments(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	seen := make(map[Department]struct{}, len(values))
	for _, raw := range values {
		dept, err := ParseDepartment(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[dept]; ok {
			continue
		}
		seen[dept] = struct{}{}
		out = append(out, string(dept))
	}
	return out, nil
}
