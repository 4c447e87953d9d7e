// Package icons turns friendly icon names ("info", "save", "mic") into
// something a notification daemon can display: a theme icon path, an SVG
// file, or an emoji glyph.
package icons

import (
	"errors"
	"sort"
)

// ErrUnknownIconSet is returned for names that were never registered.
var ErrUnknownIconSet = errors.New("unknown icon set")

// Set is one source of icons.
type Set interface {
	Name() string
	// Priority orders sets during automatic selection and fallback.
	// Higher wins.
	Priority() int
	// Icon resolves name. ok is false when the set has nothing for it.
	Icon(name string) (value string, ok bool)
	// List returns the names the set knows, sorted.
	List() []string
	Available() bool
}

// Kind classifies what a Set resolves to.
type Kind string

const (
	KindSystemTheme Kind = "system_theme"
	KindMaterial    Kind = "material"
	KindMinimal     Kind = "minimal"
	KindFilePath    Kind = "file_path"
	KindUnicode     Kind = "unicode"
	KindFallback    Kind = "fallback"
	KindNotFound    Kind = "not_found"
)

// SetInfo summarizes a registered set.
type SetInfo struct {
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	Available bool   `json:"available"`
	IconCount int    `json:"icon_count"`
	Active    bool   `json:"active"`
}

// Preview resolves the first limit names of a set. A non-positive limit
// means all.
func Preview(s Set, limit int) map[string]string {
	out := map[string]string{}
	if !s.Available() {
		return out
	}
	names := s.List()
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	for _, n := range names {
		if v, ok := s.Icon(n); ok {
			out[n] = v
		}
	}
	return out
}

// byPriority sorts sets highest priority first, then by name so ties are
// stable.
func byPriority(sets []Set) {
	sort.SliceStable(sets, func(i, j int) bool {
		if sets[i].Priority() != sets[j].Priority() {
			return sets[i].Priority() > sets[j].Priority()
		}
		return sets[i].Name() < sets[j].Name()
	})
}

func sortedNames(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
