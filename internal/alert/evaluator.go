// Package alert decides whether a property reading is outside its
// threshold range.
package alert

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// Placeholder default ranges used when no per-property threshold is stored.
const (
	DefaultFloatMin = 3.0
	DefaultFloatMax = 3.5
	DefaultIntMin   = 1.0
	DefaultIntMax   = 2.0
)

// IsNumericType reports whether a property type participates in alerting.
func IsNumericType(typ string) bool {
	t := strings.ToUpper(typ)
	return t == "INT" || t == "FLOAT"
}

// IsPropertyInAlert reports whether the property's last value lies outside
// the given range. Only INT and FLOAT properties (case-insensitive) can
// alert; anything else is inert. A value that cannot be read as a number is
// treated as "not in alert" so transient bad data never fires a notification.
// Boundary values are normal: alert holds only for v < min or v > max.
func IsPropertyInAlert(p domain.Property, r *domain.ThresholdRange) bool {
	t := strings.ToUpper(p.Type)
	if t != "INT" && t != "FLOAT" {
		return false
	}

	v, ok := numericValue(p.LastValue)
	if !ok {
		return false
	}

	min, max := DefaultIntMin, DefaultIntMax
	if t == "FLOAT" {
		min, max = DefaultFloatMin, DefaultFloatMax
	}
	if r != nil {
		min, max = r.Min, r.Max
	}
	return v < min || v > max
}

// numericValue coerces the registry's loosely typed last_value into a
// float64. JSON numbers arrive as float64 or json.Number depending on the
// decoder; strings are parsed; anything else (nil, bool, objects) fails.
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}
