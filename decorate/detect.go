package decorate

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// pageExts lists extensions of files treated as pages.
var pageExts = []string{".html", ".htm"}

func isPageFile(path string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(pageExts, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// isArchiveFile checks whether file looks like zip archive, both extension
// and signature must match.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// filetype needs no more than 262 bytes to recognize any type
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.IsType(head[:n], matchers.TypeZip), nil
}
