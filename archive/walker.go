// Package archive walks pages stored in zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Entry is a file found in archive.
type Entry struct {
	// Archive is path to the archive passed to Walk.
	Archive string
	// Name is slash separated path of the file inside archive.
	Name string
	Size uint64

	file *zip.File
}

// Open returns reader for entry content.
func (e *Entry) Open() (io.ReadCloser, error) {
	return e.file.Open()
}

// WalkFunc is called for every entry visited by Walk. If an error is
// returned, processing stops.
type WalkFunc func(e *Entry) error

// Walk visits files under prefix in archive having one of the extensions
// (case insensitive, with leading dot), all files when no extensions are
// given. Files are visited in natural order of their names. Archives with
// absolute entries or entries containing ".." are rejected as a whole.
func Walk(archive, prefix string, exts []string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) || !hasExt(name, exts) {
			continue
		}
		if _, dup := files[name]; dup {
			continue
		}
		files[name] = f
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		f := files[name]
		if err := walkFn(&Entry{Archive: archive, Name: name, Size: f.UncompressedSize64, file: f}); err != nil {
			return err
		}
	}
	return nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := path.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
