// Package codec provides strict serializers for configuration records.
//
// Every codec maps a document to a record through the record's field table.
// A document must be a single object whose key set equals the field table's:
// unknown keys, missing keys, null values and mistyped values all fail with a
// *cradle.MappingError.
//
// Codecs hold no state and are safe to share between goroutines.
package codec

import (
	"reflect"
	"sort"
	"strings"

	"github.com/jacentio/cradleconf/cradle"
)

// Codec serializes and deserializes configuration records.
type Codec interface {
	// Name returns the format name (e.g., "json").
	Name() string

	// Marshal encodes every field of rec.
	Marshal(rec cradle.Record) ([]byte, error)

	// Unmarshal decodes data into rec. rec is only fully populated on success.
	Unmarshal(data []byte, rec cradle.Record) error
}

// ForExtension returns the codec for a file extension such as ".yaml".
func ForExtension(ext string) (Codec, bool) {
	switch strings.ToLower(ext) {
	case ".json":
		return JSON{}, true
	case ".yaml", ".yml":
		return YAML{}, true
	case ".toml":
		return TOML{}, true
	}
	return nil, false
}

// decodeFunc decodes the value stored under key into dst.
type decodeFunc func(key string, dst any) error

// bind checks the document key set against rec's field table and decodes each field.
// present reports, per document key, whether the value is non-null.
func bind(rec cradle.Record, present map[string]bool, decode decodeFunc) error {
	fields := rec.Fields()

	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Key] = true
	}

	// Sorted so the reported field is stable.
	keys := make([]string, 0, len(present))
	for k := range present {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !known[k] {
			return &cradle.MappingError{Kind: rec.Kind(), Field: k, Reason: "unknown field"}
		}
	}

	for _, f := range fields {
		nonNull, ok := present[f.Key]
		if !ok {
			return &cradle.MappingError{Kind: rec.Kind(), Field: f.Key, Reason: "missing field"}
		}
		if !nonNull {
			return &cradle.MappingError{Kind: rec.Kind(), Field: f.Key, Reason: "null value"}
		}
	}

	// Decode into a scratch copy so a failed decode leaves rec untouched.
	scratch := reflect.New(reflect.TypeOf(rec).Elem())
	tmp := scratch.Interface().(cradle.Record)
	for _, f := range tmp.Fields() {
		if err := decode(f.Key, f.Value); err != nil {
			return &cradle.MappingError{Kind: rec.Kind(), Field: f.Key, Reason: "wrong type", Err: err}
		}
	}
	reflect.ValueOf(rec).Elem().Set(scratch.Elem())
	return nil
}

// values returns the dereferenced field values of rec in field-table order.
func values(rec cradle.Record) []keyValue {
	fields := rec.Fields()
	out := make([]keyValue, 0, len(fields))
	for _, f := range fields {
		out = append(out, keyValue{key: f.Key, value: reflect.ValueOf(f.Value).Elem().Interface()})
	}
	return out
}

type keyValue struct {
	key   string
	value any
}
