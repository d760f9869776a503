// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, file is the entry which satisfied prefix and match conditions. If an
// error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// MatchFunc selects entries by their name inside archive. Nil matches
// everything.
type MatchFunc func(name string) bool

// Walk visits regular files in the archive whose names start with prefix and
// satisfy match, in natural name order. Archives with absolute entry names or
// ".." components are rejected as a whole.
func Walk(archive, prefix string, match MatchFunc, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		r.Close()
		return fmt.Errorf("archive %q: unsafe path (absolute or contains path traversal): %w", archive, err)
	}
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if match != nil && !match(name) {
			continue
		}
		files = append(files, f)
	}

	slices.SortStableFunc(files, func(a, b *zip.File) int {
		switch {
		case a.Name == b.Name:
			return 0
		case natural.Less(a.Name, b.Name):
			return -1
		default:
			return 1
		}
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// Names returns names of entries Walk would visit, in the same order.
func Names(archive, prefix string, match MatchFunc) ([]string, error) {
	var names []string
	err := Walk(archive, prefix, match, func(_ string, f *zip.File) error {
		names = append(names, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
