package service

import (
	"encoding/json"
	"strings"
)

// ParseAmenities normalizes amenity input that arrives either as a JSON
// string array or as free text. Malformed JSON falls back to comma-splitting
// instead of failing the request; admin UIs send both shapes.
func ParseAmenities(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var structured []string
	if err := json.Unmarshal([]byte(raw), &structured); err == nil {
		return trimNonEmpty(structured)
	}

	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
