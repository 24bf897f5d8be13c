package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// RichText is editor content persisted in a text column as {"content": "..."}.
// Rows written before the editor existed hold plain strings; those are read back
// verbatim as the content.
type RichText struct {
	Content string
	// Legacy is set when the stored value was not the JSON form.
	Legacy bool
}

type richTextDoc struct {
	Content *string `json:"content"`
}

// ParseRichText decodes a stored value, falling back to the raw string.
func ParseRichText(raw string) RichText {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RichText{}
	}
	if strings.HasPrefix(trimmed, "{") {
		var doc richTextDoc
		if err := json.Unmarshal([]byte(trimmed), &doc); err == nil && doc.Content != nil {
			return RichText{Content: *doc.Content}
		}
	}
	return RichText{Content: raw, Legacy: true}
}

// Encode returns the canonical stored form.
func (r RichText) Encode() string {
	if r.Content == "" {
		return ""
	}
	data, _ := json.Marshal(richTextDoc{Content: &r.Content})
	return string(data)
}

// Value implements driver.Valuer; values are always written in the JSON form.
func (r RichText) Value() (driver.Value, error) {
	return r.Encode(), nil
}

// Scan implements sql.Scanner.
func (r *RichText) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = RichText{}
	case string:
		*r = ParseRichText(v)
	case []byte:
		*r = ParseRichText(string(v))
	default:
		return fmt.Errorf("types.RichText: unsupported scan type %T", value)
	}
	return nil
}

// MarshalJSON exposes only the content string to API clients.
func (r RichText) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Content)
}

// UnmarshalJSON accepts either a plain string or {"content": "..."}.
func (r *RichText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RichText{Content: s}
		return nil
	}
	var doc richTextDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("rich text must be a string or {content}: %w", err)
	}
	if doc.Content != nil {
		*r = RichText{Content: *doc.Content}
	} else {
		*r = RichText{}
	}
	return nil
}
