// Package store persists the video records of a run as a JSON file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yt-insights/ytviews/internal/models"
)

const fileSuffix = "_youtube_data.json"

// separators never reach the file name, so a term like "AC/DC" or "../x"
// stays a single file inside the output directory
var separators = strings.NewReplacer("/", "_", "\\", "_")

// FileName returns the output file name for a search term or channel ID
func FileName(term string) string {
	return separators.Replace(term) + fileSuffix
}

// Path joins dir and the output file name for term
func Path(dir, term string) string {
	return filepath.Join(dir, FileName(term))
}

// Save writes records as a 4-space indented JSON array, replacing any
// existing file at path. Non-ASCII and HTML characters are written as-is.
// The directory of path must already exist.
func Save(path string, records []models.VideoRecord) error {
	if records == nil {
		records = []models.VideoRecord{}
	}

	w, err := newAtomicWriter(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		w.abort()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := w.commit(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads back a file written by Save
func Load(path string) ([]models.VideoRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	var records []models.VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}
