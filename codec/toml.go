package codec

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/jacentio/cradleconf/cradle"
)

// TOML reads and writes records as a flat TOML document.
type TOML struct{}

func (TOML) Name() string { return "toml" }

// Marshal encodes rec as top-level TOML keys. The encoder sorts keys.
func (TOML) Marshal(rec cradle.Record) ([]byte, error) {
	doc := make(map[string]any)
	for _, kv := range values(rec) {
		doc[kv.key] = kv.value
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal toml: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes top-level TOML keys into rec.
func (TOML) Unmarshal(data []byte, rec cradle.Record) error {
	var doc map[string]toml.Primitive
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return &cradle.MappingError{Kind: rec.Kind(), Reason: "invalid TOML", Err: err}
	}

	// TOML has no null.
	present := make(map[string]bool, len(doc))
	for k := range doc {
		present[k] = true
	}

	return bind(rec, present, func(key string, dst any) error {
		return md.PrimitiveDecode(doc[key], dst)
	})
}
