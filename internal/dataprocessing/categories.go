package dataprocessing

import (
	"encoding/json"
	"regexp"
	"strings"
)

// PrimaryIndustryUnknown is the sentinel for postings without a parseable
// industry. Every silver row has a non-empty primary industry.
const PrimaryIndustryUnknown = "Unknown"

// categoryPattern extracts category names when the JSON payload is
// malformed. Upstream truncation occasionally clips the closing brackets.
var categoryPattern = regexp.MustCompile(`"category"\s*:\s*"([^"]+)"`)

type categoryEntry struct {
	ID       json.Number `json:"id"`
	Category string      `json:"category"`
}

// ParseCategories parses the JSON-encoded categories string into an
// ordered list of industry names. Malformed input falls back to regex
// extraction; on total failure an empty list is returned. A bad category
// string never fails the row.
func ParseCategories(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	var entries []categoryEntry
	if err := json.Unmarshal([]byte(trimmed), &entries); err == nil {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Category != "" {
				out = append(out, e.Category)
			}
		}
		return out
	}

	// Valid JSON of the wrong shape (an object, a bare string) carries no
	// category list; only fall back to regex on broken syntax.
	if json.Valid([]byte(trimmed)) {
		return nil
	}

	matches := categoryPattern.FindAllStringSubmatch(trimmed, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// PrimaryIndustry returns the first parsed industry, or the Unknown
// sentinel when the list is empty.
func PrimaryIndustry(industries []string) string {
	if len(industries) == 0 {
		return PrimaryIndustryUnknown
	}
	return industries[0]
}
