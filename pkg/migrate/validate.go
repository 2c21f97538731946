package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks migration filenames, version uniqueness and the goose
// Up/Down markers of every .sql file in dir.
func ValidateDir(dir string) error {
	_, err := versionsIn(dir)
	return err
}

// ValidateBase validates each driver directory under base and fails when the
// directories drift apart in their version sets.
func ValidateBase(base string) error {
	var reference []string
	var referenceDriver string
	for _, driver := range Drivers {
		versions, err := versionsIn(DirFor(base, driver))
		if err != nil {
			return fmt.Errorf("%s: %w", driver, err)
		}
		if referenceDriver == "" {
			reference, referenceDriver = versions, driver
			continue
		}
		if !slices.Equal(reference, versions) {
			return fmt.Errorf("migration versions differ between %s %v and %s %v", referenceDriver, reference, driver, versions)
		}
	}
	return nil
}

func versionsIn(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	versions := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", full, err)
		}
		txt := string(b)
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(txt, marker) {
				return nil, fmt.Errorf("migration %q missing %q", name, marker)
			}
		}
		versions = append(versions, version)
	}
	slices.Sort(versions)
	return versions, nil
}
