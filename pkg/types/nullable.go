package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// Nullable tracks whether a JSON field was present, and whether it was null.
// Valid is true whenever the key appeared in the payload; Value is nil for null.
type Nullable[T any] struct {
	Valid bool
	Value *T
}

// NullableString is a patchable optional string.
type NullableString = Nullable[string]

// NullableTime is a patchable optional timestamp.
type NullableTime = Nullable[time.Time]

// Some returns a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Valid: true, Value: &v}
}

// Null returns a present, explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed T
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// MarshalJSON renders null for absent or null values.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
