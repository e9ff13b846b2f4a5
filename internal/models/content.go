// Package models provides data model definitions for Quill.
package models

import (
	"encoding/json"
	"strings"
)

// Content is the post body union: legacy plain text, or typed rich content
// carrying a format discriminator. On the wire and in the content column it is
// either a bare string or an object like {"format":"markdown","body":"..."}.
type Content struct {
	Format string
	Body   string
	typed  bool
}

// PlainText builds a legacy plain-text content value.
func PlainText(body string) Content {
	return Content{Body: body}
}

// TypedContent builds a rich content value with a format discriminator.
func TypedContent(format, body string) Content {
	return Content{Format: format, Body: body, typed: true}
}

// IsTyped reports whether the content carries a format discriminator.
func (c Content) IsTyped() bool {
	return c.typed
}

// Text returns the raw body text regardless of representation.
func (c Content) Text() string {
	return c.Body
}

// MarshalJSON encodes typed content as an object and plain text as a string.
func (c Content) MarshalJSON() ([]byte, error) {
	if !c.typed {
		return json.Marshal(c.Body)
	}
	return json.Marshal(map[string]string{
		"format": c.Format,
		"body":   c.Body,
	})
}

// UnmarshalJSON accepts both the bare-string and the object representation.
func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Content{Body: s}
		return nil
	}
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = Content{
		Format: firstNonEmpty(obj["format"], obj["type"]),
		Body:   firstNonEmpty(obj["body"], obj["text"], obj["markdown"]),
		typed:  true,
	}
	return nil
}

// ParseContent decodes a stored content column. Columns written before typed
// content existed hold the body directly, not JSON.
func ParseContent(raw string) Content {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, `"`) {
		var c Content
		if err := json.Unmarshal([]byte(trimmed), &c); err == nil {
			return c
		}
	}
	return Content{Body: raw}
}

// ContentText extracts the raw body text from a decoded JSON field value,
// which may be a string, a typed-content object, or absent.
func ContentText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case Content:
		return t.Text()
	case map[string]interface{}:
		for _, key := range []string{"body", "text", "markdown"} {
			if s, ok := t[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
