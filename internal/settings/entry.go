package settings

import (
	"HelpdeskAdmin/internal/constants"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entry is one row of the settings table.
type Entry struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// IsJSONSlug reports whether values for slug are stored as JSON text.
func IsJSONSlug(slug string) bool {
	return slices.Contains(constants.JSONSettingSlugs, slug) || slug == constants.EnableOptionsSlug
}

// NameFromSlug derives a display name: underscores become spaces and the first letter is upper-cased.
func NameFromSlug(slug string) string {
	name := strings.ReplaceAll(slug, "_", " ")
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// EncodeValue returns the stored type and text for value under slug.
// JSON slugs are always JSON-encoded; text slugs keep strings as they are
// and JSON-encode anything else.
func EncodeValue(slug string, value any) (string, string, error) {
	if IsJSONSlug(slug) {
		data, err := json.Marshal(value)
		if err != nil {
			return "", "", fmt.Errorf("encode %s: %w", slug, err)
		}
		return constants.SettingTypeJSON, string(data), nil
	}

	switch v := value.(type) {
	case nil:
		return constants.SettingTypeText, "", nil
	case string:
		return constants.SettingTypeText, v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", "", fmt.Errorf("encode %s: %w", slug, err)
		}
		return constants.SettingTypeText, string(data), nil
	}
}

// Decoded returns the value as callers see it: structured data for json
// entries (nil when empty), the raw text otherwise.
func (e Entry) Decoded() (any, error) {
	if e.Type != constants.SettingTypeJSON {
		return e.Value, nil
	}
	if e.Value == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(e.Value), &v); err != nil {
		return nil, fmt.Errorf("decode setting %s: %w", e.Slug, err)
	}
	return v, nil
}
