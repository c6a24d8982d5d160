// Package dynmedia rewrites dynamic media delivery links into concrete
// rendition URLs.
package dynmedia

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultQuality is used when neither reference nor rule specify quality.
const DefaultQuality = 85

// ErrAssetUUIDNotFound is returned when delivery URL has no asset id.
var ErrAssetUUIDNotFound = errors.New("no asset UUID found in URL")

var uuidPattern = regexp.MustCompile(`(?i)[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)

// Transforms are optional rendition adjustments authored with the asset.
type Transforms struct {
	Rotate string
	Flip   string
	Crop   string
}

// Reference identifies single dynamic media asset.
type Reference struct {
	UUID uuid.UUID
	// Base is delivery URL without query, extension and "/original/"
	// segment in front of "as/".
	Base string
	// Ext is original file extension without dot, may be empty.
	Ext        string
	Quality    int
	Transforms Transforms
}

// FromDeliveryURL builds reference from authored delivery link.
func FromDeliveryURL(href string) (*Reference, error) {
	raw, _, _ := strings.Cut(href, "#")
	raw, _, _ = strings.Cut(raw, "?")
	raw = strings.TrimSpace(raw)

	match := uuidPattern.FindString(raw)
	if len(match) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAssetUUIDNotFound, href)
	}
	id, err := uuid.Parse(match)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetUUIDNotFound, href, err)
	}

	ref := &Reference{UUID: id, Quality: DefaultQuality}

	// only last path segment may carry extension
	base := raw
	if dot := strings.LastIndexByte(raw, '.'); dot > strings.LastIndexByte(raw, '/') {
		base, ref.Ext = raw[:dot], raw[dot+1:]
	}
	ref.Base = strings.Replace(base, "/original/as/", "/as/", 1)
	return ref, nil
}

// IsDeliveryURL reports if href points to dynamic media delivery service.
func IsDeliveryURL(href, prefix, hostSuffix string) bool {
	if !strings.HasPrefix(href, prefix) {
		return false
	}
	raw, _, _ := strings.Cut(href, "?")
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Hostname(), hostSuffix)
}

// FileName returns last path segment of the delivery URL with extension.
func (ref *Reference) FileName() string {
	name := ref.Base[strings.LastIndexByte(ref.Base, '/')+1:]
	if len(ref.Ext) > 0 {
		name += "." + ref.Ext
	}
	return name
}
