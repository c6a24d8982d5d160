// Package common keeps enumerations shared between the decoration packages
// and configuration, so neither has to import the other.
package common

//go:generate go tool go-enum --marshal --names --values

// Kind of media an authored link points to.
// ENUM(image, native-video, youtube-video)
type MediaKind int

// IsVideo reports whether the kind produces a playable embed.
func (k MediaKind) IsVideo() bool {
	return k == MediaKindNativeVideo || k == MediaKindYoutubeVideo
}

// Delivery variant of a dynamic media rendition.
// ENUM(webp, auto)
type ImageVariant int

// MIMEType returns the source type advertised for the variant, empty when
// the browser should negotiate.
func (v ImageVariant) MIMEType() string {
	if v == ImageVariantWebp {
		return "image/webp"
	}
	return ""
}

// Lifecycle of a resolved embed.
// ENUM(unloaded, loading, loaded, failed)
type EmbedState int
