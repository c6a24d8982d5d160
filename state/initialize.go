package state

import (
	"time"

	"github.com/yudalvi/whirlp-da/common"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		DefaultPlaceholders: map[common.MediaKind][]byte{
			common.MediaKindImage: []byte(`<svg viewBox="0 0 400 300" xmlns="http://www.w3.org/2000/svg">
  <rect x="0" y="0" width="400" height="300" fill="#eeeeee"/>
  <rect x="120" y="80" width="160" height="120" fill="none" stroke="#999999" stroke-width="6"/>
  <path d="M130 190 L185 130 L220 170 L245 145 L270 190 Z" fill="#bbbbbb"/>
  <path d="M250 110 A12 12 0 1 1 249.9 110" fill="#bbbbbb"/>
  <path d="M100 250 L300 50" stroke="#cc3333" stroke-width="8"/>
</svg>`),
			common.MediaKindNativeVideo: []byte(`<svg viewBox="0 0 400 225" xmlns="http://www.w3.org/2000/svg">
  <rect x="0" y="0" width="400" height="225" fill="#222222"/>
  <path d="M170 72 L170 152 L240 112 Z" fill="#dddddd"/>
  <path d="M120 200 L280 25" stroke="#cc3333" stroke-width="8"/>
</svg>`),
			common.MediaKindYoutubeVideo: []byte(`<svg viewBox="0 0 400 225" xmlns="http://www.w3.org/2000/svg">
  <rect x="0" y="0" width="400" height="225" fill="#222222"/>
  <rect x="140" y="72" width="120" height="80" rx="18" ry="18" fill="#cc3333"/>
  <path d="M185 92 L185 132 L222 112 Z" fill="#ffffff"/>
</svg>`),
		},
	}
}
