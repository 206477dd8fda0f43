package xpgtype

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

var (
	_ sql.Scanner   = (*JSON[any])(nil)
	_ driver.Valuer = (*JSON[any])(nil)
)

func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{V: v}
}

// JSON stores V in a json/jsonb column.
type JSON[T any] struct {
	V T
}

func (j JSON[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (j *JSON[T]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		var zero T
		j.V = zero
		return nil
	case []byte:
		return json.Unmarshal(v, &j.V)
	case string:
		return json.Unmarshal([]byte(v), &j.V)
	default:
		return fmt.Errorf("unsupported type %T for JSON scan", src)
	}
}
