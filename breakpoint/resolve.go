package breakpoint

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrParse is returned for malformed breakpoint configuration.
var ErrParse = errors.New("malformed breakpoint configuration")

func parseError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// Defaults returns fresh copy of the two-tier rule set used when nothing
// usable was authored.
func Defaults() []Rule {
	return []Rule{
		{Media: "(min-width: 600px)", Width: 2000, Params: []Param{{KeyMedia, "(min-width: 600px)"}, {KeyWidth, "2000"}}},
		{Width: 750, Params: []Param{{KeyWidth, "750"}}},
	}
}

// Parse decodes configuration text: groups separated by '|', tokens
// separated by ',', each token split on its first ':'. Rules are returned in
// authored order.
func Parse(text string) ([]Rule, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return nil, parseError("empty configuration")
	}
	groups := strings.Split(text, "|")
	rules := make([]Rule, 0, len(groups))
	for i, group := range groups {
		var r Rule
		for tok := range strings.SplitSeq(group, ",") {
			key, value, found := strings.Cut(tok, ":")
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			if !found || len(key) == 0 {
				return nil, parseError("group %d: bad token %q", i+1, strings.TrimSpace(tok))
			}
			r.Params = append(r.Params, Param{Key: key, Value: value})
		}
		if err := r.decode(); err != nil {
			return nil, fmt.Errorf("group %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// ParseFallback decodes filename keyed "key=value|key=value" text and merges
// it onto every default rule.
func ParseFallback(text string) ([]Rule, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return nil, parseError("empty fallback")
	}
	var overrides []Param
	for pair := range strings.SplitSeq(text, "|") {
		key, value, found := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !found || len(key) == 0 {
			return nil, parseError("bad fallback pair %q", strings.TrimSpace(pair))
		}
		overrides = append(overrides, Param{Key: key, Value: value})
	}

	rules := Defaults()
	for i := range rules {
		for _, p := range overrides {
			rules[i].set(p.Key, p.Value)
		}
		if err := rules[i].decode(); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// Resolve returns rules from configuration text, or from filename fallback
// text when configuration is absent. Malformed input never fails: defaults
// are substituted and the condition is logged. Returned rules are never
// reordered.
func Resolve(configText, fallbackText string, log *zap.Logger) []Rule {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		rules []Rule
		err   error
	)
	switch {
	case len(strings.TrimSpace(configText)) > 0:
		if rules, err = Parse(configText); err == nil {
			return rules
		}
		log.Warn("Unable to parse breakpoints, using defaults", zap.String("config", configText), zap.Error(err))
	case len(strings.TrimSpace(fallbackText)) > 0:
		if rules, err = ParseFallback(fallbackText); err == nil {
			return rules
		}
		log.Warn("Unable to parse breakpoint fallback, using defaults", zap.String("fallback", fallbackText), zap.Error(err))
	}
	return Defaults()
}

// Widest returns index of the rule with largest width, first one wins ties.
// Returns -1 for empty list.
func Widest(rules []Rule) int {
	idx := -1
	for i, r := range rules {
		if idx < 0 || r.Width > rules[idx].Width {
			idx = i
		}
	}
	return idx
}

// Clone makes deep copy of rule list.
func Clone(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = r.clone()
	}
	return out
}
