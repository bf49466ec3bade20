package model

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent field from one explicitly set to its zero
// value or to null. Set is true whenever the field was present in the input;
// Null is true when it was present as a JSON null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON is only invoked for keys present in the document, so reaching
// it marks the field as set. A JSON null leaves Value at its zero value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Null = bytes.Equal(bytes.TrimSpace(data), []byte("null"))
	return json.Unmarshal(data, &o.Value)
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}
