package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jacentio/cradleconf/cradle"
)

// YAML reads and writes records as a single YAML mapping.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

// Marshal encodes rec as a YAML mapping in field-table order.
func (YAML) Marshal(rec cradle.Record) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range values(rec) {
		var val yaml.Node
		if err := val.Encode(kv.value); err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", kv.key, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv.key},
			&val,
		)
	}
	return yaml.Marshal(doc)
}

// Unmarshal decodes a single YAML mapping into rec.
func (YAML) Unmarshal(data []byte, rec cradle.Record) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return &cradle.MappingError{Kind: rec.Kind(), Reason: "invalid YAML", Err: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return &cradle.MappingError{Kind: rec.Kind(), Reason: "not a YAML mapping"}
	}

	mapping := root.Content[0]
	nodes := make(map[string]*yaml.Node, len(mapping.Content)/2)
	present := make(map[string]bool, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, val := mapping.Content[i].Value, mapping.Content[i+1]
		if _, dup := nodes[key]; dup {
			return &cradle.MappingError{Kind: rec.Kind(), Field: key, Reason: "duplicate field"}
		}
		nodes[key] = val
		present[key] = val.ShortTag() != "!!null"
	}

	return bind(rec, present, func(key string, dst any) error {
		node := nodes[key]
		// Decode renders any scalar into a string, so the tag is checked here
		if _, ok := dst.(*string); ok && node.ShortTag() != "!!str" {
			return fmt.Errorf("cannot decode %s %q into a string", node.ShortTag(), node.Value)
		}
		return node.Decode(dst)
	})
}
