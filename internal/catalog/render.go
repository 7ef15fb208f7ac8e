package catalog

import (
	"encoding/json"
	"sort"
	"strings"
)

// RenderDescription normalizes a stored description payload for display.
// Feed descriptions arrive in several shapes: plain HTML, a JSON object keyed
// by locale, a double-encoded JSON string, or text with literal \n sequences.
// The sync job stores whatever it received; this is the single place where the
// mess is untangled, so the sync contract stays stable when display rules
// change.
func RenderDescription(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// double-encoded: a JSON string wrapping the real payload
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(s), &unquoted); err == nil {
			s = strings.TrimSpace(unquoted)
		}
	}

	// locale-wrapped: {"pt": "<p>...</p>", "es": ...}
	if strings.HasPrefix(s, "{") {
		var localized map[string]string
		if err := json.Unmarshal([]byte(s), &localized); err == nil && len(localized) > 0 {
			if v, ok := localized[primaryDescriptionLocale]; ok && v != "" {
				s = v
			} else {
				keys := make([]string, 0, len(localized))
				for k := range localized {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					if localized[k] != "" {
						s = localized[k]
						break
					}
				}
			}
		}
	}

	// literal escape sequences left over from copy-pasted JSON
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)

	return strings.TrimSpace(s)
}

const primaryDescriptionLocale = "pt"
