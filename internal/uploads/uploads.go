// Package uploads stores post images on the local filesystem. Filenames are
// sanitized and checked against an extension allow-list before any byte is
// written.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrDisallowedExtension is returned for filenames outside the allow-list.
var ErrDisallowedExtension = errors.New("file type not allowed")

// ErrBadFilename is returned for empty or path-traversing filenames.
var ErrBadFilename = errors.New("invalid filename")

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Store writes and serves uploaded files under a single directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save validates filename and writes the stream to disk, returning the
// sanitized name the file was stored under.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	name, err := sanitize(filename)
	if err != nil {
		return "", err
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return "", ErrDisallowedExtension
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return name, nil
}

// Path resolves a stored filename to its on-disk path, re-applying the
// sanitization and allow-list so a crafted request cannot escape the
// uploads directory or read arbitrary files.
func (s *Store) Path(filename string) (string, error) {
	name, err := sanitize(filename)
	if err != nil {
		return "", err
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return "", ErrDisallowedExtension
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// sanitize strips any directory components and rejects names that are empty
// or still contain separators afterwards.
func sanitize(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return "", ErrBadFilename
	}
	return name, nil
}
