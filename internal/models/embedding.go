package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// Embedding is a menu item embedding stored in pgvector's text format. An
// empty embedding is written as NULL so rows created before a vector exists
// (or on dialects without pgvector) still round-trip cleanly.
type Embedding []float32

// Value implements the driver.Valuer interface
func (e Embedding) Value() (driver.Value, error) {
	if len(e) == 0 {
		return nil, nil
	}
	return pgvector.NewVector(e).Value()
}

// Scan implements the sql.Scanner interface
func (e *Embedding) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}

	var s string
	switch v := value.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("unsupported embedding column type %T", value)
	}

	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		*e = nil
		return nil
	}

	var vec pgvector.Vector
	if err := vec.Scan(s); err != nil {
		return err
	}
	*e = vec.Slice()
	return nil
}
