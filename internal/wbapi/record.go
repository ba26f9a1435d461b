package wbapi

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one loosely typed JSON object from an upstream response. Every
// accessor takes a fallback and an ordered list of accepted field names; the
// first name present with a usable value wins.
type Record map[string]any

// Float returns the first numeric field among names, or def.
func (r Record) Float(def float64, names ...string) float64 {
	for _, n := range names {
		if f, ok := toFloat(r[n]); ok {
			return f
		}
	}
	return def
}

// OptFloat is Float for fields with no meaningful default: nil when none of
// names holds a number.
func (r Record) OptFloat(names ...string) *float64 {
	for _, n := range names {
		if f, ok := toFloat(r[n]); ok {
			return &f
		}
	}
	return nil
}

// Int returns the first numeric field among names truncated to int64, or def.
func (r Record) Int(def int64, names ...string) int64 {
	for _, n := range names {
		if f, ok := toFloat(r[n]); ok {
			return int64(f)
		}
	}
	return def
}

// String returns the first non-empty string field among names, or def.
func (r Record) String(def string, names ...string) string {
	for _, n := range names {
		if s, ok := r[n].(string); ok && s != "" {
			return s
		}
	}
	return def
}

// Bool returns the truthiness of the first present field among names, or def.
// Numbers are true when non-zero and strings when non-empty and not "false".
func (r Record) Bool(def bool, names ...string) bool {
	for _, n := range names {
		v, ok := r[n]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case float64:
			return t != 0
		case json.Number:
			f, err := t.Float64()
			return err == nil && f != 0
		case string:
			s := strings.TrimSpace(strings.ToLower(t))
			return s != "" && s != "false" && s != "0"
		default:
			return true
		}
	}
	return def
}

// Records returns the first field among names that holds an array, keeping
// only its object elements. Missing or malformed fields yield nil.
func (r Record) Records(names ...string) []Record {
	for _, n := range names {
		if list, ok := r[n].([]any); ok {
			return AsRecords(list)
		}
	}
	return nil
}

// Strings returns the first array field among names as strings, skipping
// non-string elements.
func (r Record) Strings(names ...string) []string {
	for _, n := range names {
		list, ok := r[n].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// AsRecords keeps the object elements of a decoded JSON array.
func AsRecords(list []any) []Record {
	out := make([]Record, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// AsRecord reports whether v is a JSON object.
func AsRecord(v any) (Record, bool) {
	m, ok := v.(map[string]any)
	return Record(m), ok
}

// AsInt converts a bare JSON number (or numeric string) to an int64.
func AsInt(v any) (int64, bool) {
	f, ok := toFloat(v)
	return int64(f), ok
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
