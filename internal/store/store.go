package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const DefaultDir = "detections"

// Store writes detection details as one pretty-printed JSON file per detection.
type Store struct {
	dir  string
	mode os.FileMode
}

func New(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir, mode: 0o644}
}

func (s *Store) Dir() string { return s.dir }

func FileName(detectionID string) string {
	return "detection_" + detectionID + ".json"
}

// Path returns where the detail for detectionID is stored.
func (s *Store) Path(detectionID string) string {
	return filepath.Join(s.dir, FileName(detectionID))
}

// Save indents body with two spaces and atomically replaces the detection's file.
// Nothing is written unless body is valid JSON.
func (s *Store) Save(detectionID string, body []byte) (string, error) {
	if err := validateDetectionID(detectionID); err != nil {
		return "", err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(body), "", "  "); err != nil {
		return "", fmt.Errorf("format detection %s: %w", detectionID, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := s.Path(detectionID)
	if err := writeFileAtomic(path, pretty.Bytes(), s.mode); err != nil {
		return "", err
	}
	return path, nil
}

func validateDetectionID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("detection id is empty")
	case id == "." || id == "..":
		return fmt.Errorf("invalid detection id: %q", id)
	case strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0):
		return fmt.Errorf("detection id contains a path separator: %q", id)
	}
	return nil
}
