// Package breakpoint turns authored breakpoint configuration into ordered
// responsive image rules.
package breakpoint

import (
	"strconv"
	"strings"
)

// Known rule keys.
const (
	KeyWidth   = "width"
	KeyMedia   = "media"
	KeyQuality = "quality"
	KeyFormat  = "format"
)

// Param is single authored key/value token.
type Param struct {
	Key   string
	Value string
}

// Rule is one breakpoint: candidate width and optional media condition,
// quality and format. Params keeps every authored token in input order,
// known keys are additionally decoded into typed fields.
type Rule struct {
	Media   string
	Width   int
	Quality int
	Format  string
	Params  []Param
}

// HasMedia reports if rule is conditional. Unconditional rule is a fallback.
func (r Rule) HasMedia() bool {
	return len(r.Media) > 0
}

// Get returns value of authored token.
func (r Rule) Get(key string) (string, bool) {
	for _, p := range r.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// set overrides value of existing token or appends new one.
func (r *Rule) set(key, value string) {
	for i := range r.Params {
		if r.Params[i].Key == key {
			r.Params[i].Value = value
			return
		}
	}
	r.Params = append(r.Params, Param{Key: key, Value: value})
}

// decode fills typed fields from Params.
func (r *Rule) decode() error {
	r.Media, r.Width, r.Quality, r.Format = "", 0, 0, ""
	for _, p := range r.Params {
		switch p.Key {
		case KeyWidth:
			w, err := strconv.Atoi(p.Value)
			if err != nil || w <= 0 {
				return parseError("bad width %q", p.Value)
			}
			r.Width = w
		case KeyQuality:
			q, err := strconv.Atoi(p.Value)
			if err != nil || q < 1 || q > 100 {
				return parseError("bad quality %q", p.Value)
			}
			r.Quality = q
		case KeyMedia:
			r.Media = p.Value
		case KeyFormat:
			r.Format = strings.ToLower(p.Value)
		}
	}
	if r.Width == 0 {
		return parseError("rule has no width")
	}
	return nil
}

func (r Rule) clone() Rule {
	c := r
	c.Params = append([]Param(nil), r.Params...)
	return c
}

// String renders rule back in authored configuration form.
func (r Rule) String() string {
	parts := make([]string, 0, len(r.Params))
	for _, p := range r.Params {
		parts = append(parts, p.Key+":"+p.Value)
	}
	return strings.Join(parts, ",")
}
