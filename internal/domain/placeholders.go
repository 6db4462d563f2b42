package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Placeholder redirects any path matching Pattern to Replacement
type Placeholder struct {
	Pattern     string `json:"pattern" yaml:"pattern" mapstructure:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement" mapstructure:"replacement"`
}

// PlaceholderMap is an ordered list of placeholders. It can be authored as a
// JSON/YAML object ({"jquery.js": "vendor/jquery.min.js"}) whose key order is
// kept, or as a list of {pattern, replacement} objects. The first matching
// entry wins, so order is significant.
type PlaceholderMap []Placeholder

// MarshalJSON writes the map as a JSON object in declaration order
func (m PlaceholderMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Pattern)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Replacement)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object or a list of placeholders
func (m *PlaceholderMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch tok {
	case nil:
		*m = nil
		return nil
	case json.Delim('['):
		var list []Placeholder
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*m = list
		return nil
	case json.Delim('{'):
	default:
		return fmt.Errorf("placeholders: expected object or list, got %v", tok)
	}

	out := make(PlaceholderMap, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var replacement string
		if err := dec.Decode(&replacement); err != nil {
			return fmt.Errorf("placeholder %q: %w", key, err)
		}
		out = append(out, Placeholder{Pattern: key, Replacement: replacement})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// UnmarshalYAML accepts a mapping or a sequence node; mapping key order is kept
func (m *PlaceholderMap) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(PlaceholderMap, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var replacement string
			if err := node.Content[i+1].Decode(&replacement); err != nil {
				return fmt.Errorf("placeholder %q: %w", node.Content[i].Value, err)
			}
			out = append(out, Placeholder{Pattern: node.Content[i].Value, Replacement: replacement})
		}
		*m = out
		return nil
	case yaml.SequenceNode:
		var list []Placeholder
		if err := node.Decode(&list); err != nil {
			return err
		}
		*m = list
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*m = nil
			return nil
		}
	}
	return fmt.Errorf("placeholders: line %d: expected mapping or sequence", node.Line)
}
