package migrate

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/calder/schemasync/internal/checksum"
)

// ListFiles discovers migration candidates in dir.
//
// Entries survive the filter only if they are regular files whose extension
// is exactly ".sql" (case-sensitive: "0001_init.SQL" is skipped).
// Directories and other extensions are silently ignored.
//
// The result is ordered by file name using byte-wise lexicographic
// comparison. Each surviving file is read in full and fingerprinted via the
// checksum package. The catalog is stateless: every call re-reads the
// directory from scratch.
//
// Duplicate names are a fatal configuration error (ErrCodeDuplicateName)
// rather than a silent pick-one.
func ListFiles(dir string) ([]MigrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapIO("failed to read migrations directory", "", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		names = append(names, entry.Name())
	}

	// Go string comparison is byte-wise, which is exactly the ordering the
	// prefix validation depends on. No locale-aware collation here.
	sort.Strings(names)

	files := make([]MigrationFile, 0, len(names))
	for i, name := range names {
		// A directory cannot normally hold two entries with the same name,
		// but case-folding or overlay mounts can collapse distinct entries.
		if i > 0 && names[i-1] == name {
			return nil, &Error{
				Code:    ErrCodeDuplicateName,
				Message: "duplicate migration name in catalog",
				Name:    name,
			}
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, wrapIO("failed to read migration file", name, err)
		}

		files = append(files, MigrationFile{
			Name:     name,
			Content:  content,
			Checksum: checksum.Sum(content),
		})
	}

	return files, nil
}
