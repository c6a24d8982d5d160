package images

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
)

// PlaceholderDataURI rasterizes SVG into PNG of requested size and returns it
// as data URI suitable for img src attribute.
func PlaceholderDataURI(svgData []byte, w, h int) (string, error) {
	img, err := RasterizeSVGToImage(svgData, w, h)
	if err != nil {
		return "", fmt.Errorf("unable to rasterize placeholder: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("unable to encode placeholder: %w", err)
	}
	return DataURI(buf.Bytes()), nil
}

// DataURI wraps binary data into data URI, detecting MIME type from content.
func DataURI(data []byte) string {
	mime := "application/octet-stream"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		mime = kind.MIME.Value
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
