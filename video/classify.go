// Package video recognizes video links and builds playable embeds for them.
package video

import (
	"path"
	"regexp"
	"strings"

	"github.com/h2non/filetype"

	"github.com/yudalvi/whirlp-da/common"
)

var (
	videoExt     = regexp.MustCompile(`(?i)\.(mp4|mov|wmv|avi|mkv|webm)$`)
	youtubeHosts = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}
)

// Classify labels authored link. It never fails: anything not recognized as
// video, including garbage, is an image.
func Classify(link string) (kind common.MediaKind) {
	defer func() {
		if r := recover(); r != nil {
			kind = common.MediaKindImage
		}
	}()

	link = strings.TrimSpace(link)
	if len(link) == 0 {
		return common.MediaKindImage
	}
	lower := strings.ToLower(link)
	for _, h := range youtubeHosts {
		if strings.Contains(lower, h) {
			return common.MediaKindYoutubeVideo
		}
	}
	if videoExt.MatchString(stripQuery(link)) {
		return common.MediaKindNativeVideo
	}
	return common.MediaKindImage
}

// IsVideo is shortcut for Classify(link).IsVideo().
func IsVideo(link string) bool {
	return Classify(link).IsVideo()
}

// MIMEType returns MIME type of native video link by its extension, empty
// when extension is unknown.
func MIMEType(link string) string {
	ext := strings.TrimPrefix(path.Ext(stripQuery(link)), ".")
	t := filetype.GetType(strings.ToLower(ext))
	if t == filetype.Unknown {
		return ""
	}
	return t.MIME.Value
}

func stripQuery(link string) string {
	link, _, _ = strings.Cut(link, "#")
	link, _, _ = strings.Cut(link, "?")
	return link
}
