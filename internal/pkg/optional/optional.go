// Package optional provides a field wrapper that keeps "omitted" and
// "explicitly null" apart when decoding sparse JSON documents.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is absent until decoded or constructed. A JSON null yields a present
// value flagged Null whose V is the zero value of T.
type Value[T any] struct {
	V       T
	Present bool
	Null    bool
}

// Of returns a present value.
func Of[T any](v T) Value[T] {
	return Value[T]{V: v, Present: true}
}

// Null returns a present value that clears the target field.
func Null[T any]() Value[T] {
	return Value[T]{Present: true, Null: true}
}

// Get reports the value to write and whether the field was supplied at all.
func (o Value[T]) Get() (T, bool) {
	return o.V, o.Present
}

// OrElse returns V when present, otherwise def.
func (o Value[T]) OrElse(def T) T {
	if !o.Present {
		return def
	}
	return o.V
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.V = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.V)
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}
