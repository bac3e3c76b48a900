package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jacentio/cradleconf/cradle"
)

// JSON is the canonical codec. Keys are emitted in field-table order.
type JSON struct {
	// Indent, when non-empty, pretty-prints Marshal output with this indent.
	Indent string
}

func (JSON) Name() string { return "json" }

// Marshal encodes rec as a single JSON object.
func (c JSON) Marshal(rec cradle.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range values(rec) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", kv.key, err)
		}
		val, err := json.Marshal(kv.value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", kv.key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	if c.Indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", c.Indent); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Unmarshal decodes a single JSON object into rec.
func (JSON) Unmarshal(data []byte, rec cradle.Record) error {
	doc, err := decodeObject(data)
	if err != nil {
		var mErr *cradle.MappingError
		if errors.As(err, &mErr) {
			mErr.Kind = rec.Kind()
			return mErr
		}
		return &cradle.MappingError{Kind: rec.Kind(), Reason: "invalid JSON object", Err: err}
	}

	present := make(map[string]bool, len(doc))
	for k, v := range doc {
		present[k] = !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
	}

	return bind(rec, present, func(key string, dst any) error {
		return json.Unmarshal(doc[key], dst)
	})
}

// decodeObject splits a JSON object into its raw member values.
// Repeated keys are a *cradle.MappingError; any other failure is a plain error.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("found %v", tok)
	}

	doc := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if _, dup := doc[key]; dup {
			return nil, &cradle.MappingError{Field: key, Reason: "duplicate field"}
		}
		doc[key] = raw
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after the object")
	}
	return doc, nil
}
