package dynmedia

import (
	"strconv"
	"strings"

	"github.com/yudalvi/whirlp-da/breakpoint"
	"github.com/yudalvi/whirlp-da/common"
)

// Render produces rendition URL for rule and variant. Query parameters are
// always emitted in the same order: width, quality, preferwebp, rotate, flip,
// crop. Flip and crop values are lower-cased.
func Render(ref *Reference, rule breakpoint.Rule, variant common.ImageVariant) string {
	var sb strings.Builder
	sb.WriteString(ref.Base)
	sb.WriteByte('.')
	if variant == common.ImageVariantAuto && len(rule.Format) > 0 {
		sb.WriteString(rule.Format)
	} else {
		sb.WriteString("webp")
	}

	quality := rule.Quality
	if quality == 0 {
		quality = ref.Quality
	}
	if quality == 0 {
		quality = DefaultQuality
	}

	sb.WriteString("?width=")
	sb.WriteString(strconv.Itoa(rule.Width))
	sb.WriteString("&quality=")
	sb.WriteString(strconv.Itoa(quality))
	if variant == common.ImageVariantWebp {
		sb.WriteString("&preferwebp=true")
	}
	appendParam(&sb, "rotate", ref.Transforms.Rotate)
	appendParam(&sb, "flip", strings.ToLower(ref.Transforms.Flip))
	appendParam(&sb, "crop", strings.ToLower(ref.Transforms.Crop))
	return sb.String()
}

func appendParam(sb *strings.Builder, key, value string) {
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return
	}
	sb.WriteByte('&')
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(value)
}
