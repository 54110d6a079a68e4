package docstore

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Field helpers tolerate the type drift introduced by JSON round-trips:
// numbers come back as float64 or json.Number depending on the backend.

// Str reads a string field, returning "" when absent or mistyped.
func Str(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

// Int reads an integer field.
func Int(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

// Millis reads an epoch-millisecond ordering token; 0 means not yet
// server-stamped.
func Millis(fields map[string]any, key string) int64 {
	switch v := fields[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return 0
}

// Decimal reads a price-like field written either as a decimal string or a
// raw number.
func Decimal(fields map[string]any, key string) decimal.Decimal {
	switch v := fields[key].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case decimal.Decimal:
		return v
	}
	return decimal.Zero
}

// Map reads a nested object field.
func Map(fields map[string]any, key string) map[string]any {
	if m, ok := fields[key].(map[string]any); ok {
		return m
	}
	return nil
}

// Slice reads a nested array field.
func Slice(fields map[string]any, key string) []any {
	if s, ok := fields[key].([]any); ok {
		return s
	}
	return nil
}
