package breakpoint

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

const emSize = 16

// MinWidth extracts min-width (in px) from media condition. Returns false if
// condition has no min-width feature or its value cannot be understood.
func MinWidth(media string) (float64, bool) {
	l := css.NewLexer(parse.NewInputString(media))
	expectValue := false
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return 0, false
		case css.IdentToken:
			expectValue = strings.EqualFold(string(data), "min-width")
		case css.DimensionToken:
			if !expectValue {
				continue
			}
			return dimension(string(data))
		case css.NumberToken:
			if expectValue && string(data) == "0" {
				return 0, true
			}
		}
	}
}

func dimension(s string) (float64, bool) {
	s = strings.ToLower(s)
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "rem"):
		s, scale = strings.TrimSuffix(s, "rem"), emSize
	case strings.HasSuffix(s, "em"):
		s, scale = strings.TrimSuffix(s, "em"), emSize
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * scale, true
}

// CheckOrder reports authoring problems which break first-match negotiation:
// conditional rules not listed widest min-width first and unconditional rule
// not being the last one. Rules are not changed, problems are only logged.
func CheckOrder(rules []Rule, log *zap.Logger) bool {
	if log == nil {
		log = zap.NewNop()
	}
	ok := true
	prev, havePrev := 0.0, false
	for i, r := range rules {
		if !r.HasMedia() {
			if i != len(rules)-1 {
				log.Warn("Unconditional breakpoint is not the last one", zap.Int("index", i), zap.Stringer("rule", r))
				ok = false
			}
			continue
		}
		mw, found := MinWidth(r.Media)
		if !found {
			continue
		}
		if havePrev && mw > prev {
			log.Warn("Breakpoints are not ordered widest first", zap.Int("index", i), zap.Stringer("rule", r))
			ok = false
		}
		prev, havePrev = mw, true
	}
	if len(rules) > 0 && rules[len(rules)-1].HasMedia() {
		log.Debug("Last breakpoint is conditional, no unconditional fallback", zap.Stringer("rule", rules[len(rules)-1]))
	}
	return ok
}

// MetadataKey normalizes image file name into the metadata name its fallback
// breakpoints are authored under: "Hero.JPG" becomes "hero-jpg".
func MetadataKey(filename string) string {
	if i := strings.LastIndexAny(filename, "/\\"); i >= 0 {
		filename = filename[i+1:]
	}
	return slug.Make(filename)
}
