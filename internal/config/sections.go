package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// sectionList decodes a section selection written as a list, a comma
// separated string or null. Null stays nil (every section); an empty list
// stays empty (no section).
type sectionList []string

func splitSections(s string) []string {
	out := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	if out == nil {
		out = []string{}
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler
func (l *sectionList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = splitSections(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("sections: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	*l = list
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (l *sectionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = splitSections(node.Value)
		return nil
	case yaml.SequenceNode:
		list := make([]string, 0, len(node.Content))
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	return fmt.Errorf("sections: line %d: expected list or string", node.Line)
}

// sectionsFromValue converts a raw viper value (env, flags) into a list
func sectionsFromValue(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return splitSections(val)
	case []string:
		return append([]string{}, val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}
