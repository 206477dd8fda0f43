package omit

import (
	"encoding/json"
)

// Omit marks a value as set or unset. Combined with the `omitzero` json tag an
// unset Omit disappears from the payload, which lets partial update requests
// send only the fields an admin changed.
type Omit[T any] struct {
	Value T
	OK    bool
}

func New[T any](value T) Omit[T] {
	return Omit[T]{
		Value: value,
		OK:    true,
	}
}

func NewZero[T any]() Omit[T] {
	return Omit[T]{}
}

func (o Omit[T]) IsZero() bool {
	return !o.OK
}

func (o Omit[T]) Or(fallback T) T {
	if o.OK {
		return o.Value
	}
	return fallback
}

func (o Omit[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func (o *Omit[T]) UnmarshalJSON(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	o.Value = value
	o.OK = true

	return nil
}
