package parser

import (
	"path/filepath"
	"slices"
	"strings"
)

// CheckFileType rejects names without the .xlsx extension.
func CheckFileType(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return &InvalidFileTypeError{Name: name}
	}
	return nil
}

// Intake holds the pending file selection before a quiz starts.
type Intake struct {
	paths []string
}

// Add appends path if it is an .xlsx file not already pending. A repeat
// returns ErrAlreadyAdded and leaves the selection unchanged.
func (in *Intake) Add(path string) error {
	path = strings.TrimSpace(path)
	if err := CheckFileType(path); err != nil {
		return err
	}
	if slices.Contains(in.paths, path) {
		return ErrAlreadyAdded
	}
	in.paths = append(in.paths, path)
	return nil
}

// Remove drops the entry at index i. Out-of-range indexes are ignored.
func (in *Intake) Remove(i int) {
	if i < 0 || i >= len(in.paths) {
		return
	}
	in.paths = slices.Delete(in.paths, i, i+1)
}

// Clear empties the selection.
func (in *Intake) Clear() {
	in.paths = nil
}

// Paths returns a copy of the pending paths in the order they were added.
func (in *Intake) Paths() []string {
	return slices.Clone(in.paths)
}

// Len returns the number of pending files.
func (in *Intake) Len() int {
	return len(in.paths)
}

// Files converts the pending paths to parser inputs.
func (in *Intake) Files() []File {
	files := make([]File, len(in.paths))
	for i, p := range in.paths {
		files[i] = PathFile(p)
	}
	return files
}
