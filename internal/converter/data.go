package converter

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Data is an object-shaped apiData value, either a JSON object or a JSON array.
// Arrays are accepted as data but expose no named fields.
// NewData should be used to create instances of Data.
type Data struct {
	fields map[string]any
	items  []any
	isList bool
}

// NewData wraps a decoded JSON value.
// It returns false when the value is not object-shaped (null, string, number or bool).
func NewData(v any) (Data, bool) {
	switch t := v.(type) {
	case map[string]any:
		return Data{fields: t}, true
	case []any:
		return Data{items: t, isList: true}, true
	default:
		return Data{}, false
	}
}

// IsList reports whether the data was supplied as a JSON array.
func (d Data) IsList() bool {
	return d.isList
}

// Lookup returns the value of the named field.
// A field explicitly set to null is treated as absent.
func (d Data) Lookup(key string) (any, bool) {
	v, ok := d.fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether the named field is present and not null.
func (d Data) Has(key string) bool {
	_, ok := d.Lookup(key)
	return ok
}

// String returns the named field rendered as a query-string value.
// Objects and arrays cannot be rendered and report false.
func (d Data) String(key string) (string, bool) {
	v, ok := d.Lookup(key)
	if !ok {
		return "", false
	}
	return scalarString(v)
}

// Keys returns the sorted field names of an object, or nil for arrays.
func (d Data) Keys() []string {
	if d.isList {
		return nil
	}
	return slices.Sorted(maps.Keys(d.fields))
}

// Raw returns the underlying decoded value.
func (d Data) Raw() any {
	if d.isList {
		return d.items
	}
	if d.fields == nil {
		return map[string]any{}
	}
	return d.fields
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case map[string]any, []any:
		return "", false
	default:
		return fmt.Sprint(t), true
	}
}
