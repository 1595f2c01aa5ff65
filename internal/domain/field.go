package domain

import (
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// Field reads a named field from an entity that may be a map or a struct
// (or pointer to either), returning def when the field is absent. Goal and
// profile data arrives both as decoded YAML maps and as typed structs
// depending on the caller; this is the one place that difference is handled.
func Field(entity any, name string, def any) any {
	if entity == nil {
		return def
	}
	if m, ok := entity.(map[string]any); ok {
		if v, ok := m[name]; ok && v != nil {
			return v
		}
		return def
	}
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return def
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Map {
		for _, k := range v.MapKeys() {
			if k.Kind() == reflect.String && strings.EqualFold(k.String(), name) {
				if mv := v.MapIndex(k); mv.IsValid() && mv.CanInterface() {
					return mv.Interface()
				}
			}
		}
		return def
	}
	if v.Kind() != reflect.Struct {
		return def
	}
	t := v.Type()
	want := normalizeFieldName(name)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if normalizeFieldName(f.Name) == want || tagName(f) == name {
			fv := v.Field(i)
			if fv.Kind() == reflect.Pointer && fv.IsNil() {
				return def
			}
			return fv.Interface()
		}
	}
	return def
}

// NumberField reads a numeric field, falling back to def when the value is
// absent or not numeric.
func NumberField(entity any, name string, def decimal.Decimal) decimal.Decimal {
	if v, ok := Number(Field(entity, name, nil)); ok {
		return v
	}
	return def
}

// StringField reads a string field with a default.
func StringField(entity any, name, def string) string {
	if s, ok := Field(entity, name, nil).(string); ok && s != "" {
		return s
	}
	return def
}

// Number coerces the dynamic value shapes seen in answer lists and metadata
// blobs into a decimal.
func Number(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case map[string]any:
		// Legacy wrapper shape {value: n}.
		if inner, ok := n["value"]; ok {
			return Number(inner)
		}
	}
	return decimal.Zero, false
}

func normalizeFieldName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

func tagName(f reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		tag := f.Tag.Get(key)
		if tag == "" {
			continue
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return ""
}
