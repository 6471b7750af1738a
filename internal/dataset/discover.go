package dataset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover lists the dataset names available under dataDir, in sorted order.
// A dataset name is the part of the file name between the LegISTyr prefix and
// the .csv extension.
func Discover(dataDir string) ([]string, error) {
	pattern := filepath.ToSlash(filepath.Join(dataDir, "**", FilePrefix+"*.csv"))
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		name := strings.TrimSuffix(strings.TrimPrefix(base, FilePrefix), ".csv")
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
