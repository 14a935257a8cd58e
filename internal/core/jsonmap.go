// AngelaMos | 2026
// jsonmap.go

package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is the extension bag stored in JSONB columns. Required fields of a
// record live in typed struct fields; anything else lands here.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal json map: %w", err)
	}
	return b, nil
}

func (m *JSONMap) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = JSONMap{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan json map: unsupported type %T", src)
	}

	out := JSONMap{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("scan json map: %w", err)
		}
	}
	*m = out
	return nil
}

// JSONSlice stores a small homogeneous list in a JSONB column.
type JSONSlice[T any] []T

func (s JSONSlice[T]) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]T(s))
	if err != nil {
		return nil, fmt.Errorf("marshal json slice: %w", err)
	}
	return b, nil
}

func (s *JSONSlice[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = JSONSlice[T]{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan json slice: unsupported type %T", src)
	}

	out := JSONSlice[T]{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("scan json slice: %w", err)
		}
	}
	*s = out
	return nil
}
