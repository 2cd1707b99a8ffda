package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONField wraps an arbitrary Go value so gorm can persist it in a jsonb
// column (TEXT on sqlite) and scan it back.
type JSONField[T any] struct {
	Data T
}

func MakeJSONField[T any](data T) *JSONField[T] {
	return &JSONField[T]{Data: data}
}

func (j JSONField[T]) Value() (driver.Value, error) {
	return json.Marshal(j.Data)
}

func (j *JSONField[T]) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	default:
		return fmt.Errorf("unsupported type %T for JSONField", value)
	}
}

func (j JSONField[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONField[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &j.Data)
}
