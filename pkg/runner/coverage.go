package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoCoverage is returned when a cell produced no coverage report.
var ErrNoCoverage = errors.New("no coverage report")

// LocateCoverage finds the newest coverage report under dir.
func LocateCoverage(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "coverage*.xml"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w under %s", ErrNoCoverage, dir)
	}

	newest := matches[0]
	var newestMod int64
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); mod >= newestMod {
			newest = m
			newestMod = mod
		}
	}
	return newest, nil
}
