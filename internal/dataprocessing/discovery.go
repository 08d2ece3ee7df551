package dataprocessing

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// recordingNameRe matches the file extensions the loader understands.
var recordingNameRe = regexp.MustCompile(`(?i)\.(csv|xlsx)$`)

// IsRecordingName reports whether name looks like a loadable recording file.
func IsRecordingName(name string) bool {
	return recordingNameRe.MatchString(name)
}

// DiscoverLatest returns the most recently modified recording file in dir.
// It lets a caller point at a directory of recordings and pick up the newest
// capture without naming it.
func DiscoverLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var (
		best     string
		bestTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !IsRecordingName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestTime) {
			best = entry.Name()
			bestTime = info.ModTime()
		}
	}
	if best == "" {
		return "", fmt.Errorf("no recordings found in %s", dir)
	}
	return filepath.Join(dir, best), nil
}
