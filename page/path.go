package page

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when page path carries no recognizable language.
const DefaultLanguage = "en"

// PathDetails describes page location relative to its language root.
type PathDetails struct {
	Prefix        string
	Suffix        string
	Lang          string
	IsContentPath bool
}

// ParsePath splits page path on language segment. For repository paths
// (/content/<site>/<root>/<lang>/...) language is the fifth segment, for
// published paths (/<lang>/...) it is the first one. File extension is
// removed from language segment.
func ParsePath(path string) PathDetails {
	pd := PathDetails{IsContentPath: strings.HasPrefix(path, "/content")}

	parts := strings.Split(path, "/")
	idx := 1
	if pd.IsContentPath {
		idx = 4
	}
	var seg string
	if len(parts) > idx {
		seg = parts[idx]
	}
	lang, _, _ := strings.Cut(seg, ".")
	if len(lang) == 0 {
		pd.Lang = DefaultLanguage
		pd.Prefix = strings.TrimSuffix(path, "/")
		return pd
	}
	pd.Lang = lang
	pd.Prefix = strings.Join(parts[:idx], "/")
	pd.Suffix = seg[len(lang):]
	if len(parts) > idx+1 {
		pd.Suffix += "/" + strings.Join(parts[idx+1:], "/")
	}
	return pd
}

// Language returns page language if it is well formed and present in
// supported list, otherwise first supported language (or DefaultLanguage when
// list is empty).
func (pd PathDetails) Language(supported []string) string {
	fallback := DefaultLanguage
	if len(supported) > 0 {
		fallback = supported[0]
	}
	tag, err := language.Parse(pd.Lang)
	if err != nil {
		return fallback
	}
	for _, s := range supported {
		st, err := language.Parse(s)
		if err == nil && st.String() == tag.String() {
			return s
		}
	}
	return fallback
}
