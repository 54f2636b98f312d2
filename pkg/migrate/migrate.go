// Package migrate discovers embedded SQL migration files. Each SQL backend
// applies them with its own driver and records applied filenames in a
// schema_migrations table.
package migrate

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Migration is one SQL file
type Migration struct {
	Filename string
	SQL      string
}

// Pending returns the .sql files in dir that are not in applied, sorted by filename
func Pending(fsys fs.FS, dir string, applied map[string]bool) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") && !applied[entry.Name()] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		migrations = append(migrations, Migration{Filename: name, SQL: string(content)})
	}

	return migrations, nil
}

// Statements splits a migration into individual statements for drivers that
// execute one statement per call. Statements are separated by semicolons at line ends.
func Statements(sql string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			statements = append(statements, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}
	return statements
}
