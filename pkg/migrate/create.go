package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hotelops/reclamations-backend/pkg/config"
)

var (
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

	// Drivers lists every driver that keeps its own migration directory.
	Drivers = []string{config.DriverPostgres, config.DriverSQLite}
)

// CreateSQLMigration scaffolds the same goose version in every driver
// directory under base:
//
//	<base>/<driver>/<YYYYMMDDHHMMSS>_<name>.sql
func CreateSQLMigration(base string, name string) ([]string, error) {
	return createAt(base, name, time.Now().UTC())
}

func createAt(base, name string, now time.Time) ([]string, error) {
	if base == "" {
		return nil, fmt.Errorf("base dir is required")
	}

	safe := sanitizeName(name)
	if safe == "" {
		return nil, fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	filename := fmt.Sprintf("%s_%s.sql", now.Format("20060102150405"), safe)
	paths := make([]string, 0, len(Drivers))
	for _, driver := range Drivers {
		paths = append(paths, filepath.Join(DirFor(base, driver), filename))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("migration already exists: %s", path)
		}
	}

	for i, driver := range Drivers {
		if err := os.MkdirAll(filepath.Dir(paths[i]), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", filepath.Dir(paths[i]), err)
		}
		if err := os.WriteFile(paths[i], []byte(scaffold(safe, driver)), 0o644); err != nil {
			return nil, fmt.Errorf("write migration %q: %w", paths[i], err)
		}
	}
	return paths, nil
}

func sanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}

func scaffold(name, driver string) string {
	return fmt.Sprintf(`-- +goose Up
-- +goose StatementBegin
-- %s (%s)
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %s
-- +goose StatementEnd
`, name, driver, name)
}
