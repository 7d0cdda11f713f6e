package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tag is a label attached to events. Names are unique case-insensitively.
type Tag struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	ParentID *string `json:"parentId" yaml:"parentId,omitempty"`
}

// TagRef is an inline tag reference supplied by a client: an id, a name, or both.
type TagRef struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// NameKey is the comparison key for tag names.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// StringList accepts either a single string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the same scalar-or-list rule.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = StringList{value.Value}
		return nil
	}
	var items []string
	if err := value.Decode(&items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Category is the legacy grouping that predates tags. Categories are merged
// into tags when a document is loaded.
type Category = Tag
