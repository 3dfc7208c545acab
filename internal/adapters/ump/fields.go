package ump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The upstream API is loose about field names and types. These helpers pick
// the first alias holding a non-empty value, where empty means null, "", 0,
// false, [] or {}.

func decodeLoose(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

func firstTruthy(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// firstTruthyRaw is firstTruthy over an undecoded object, returning the value verbatim.
func firstTruthyRaw(m map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		v, err := decodeLoose(raw)
		if err == nil && truthy(v) {
			return raw, true
		}
	}
	return nil, false
}

// textOf renders a scalar the way it appeared on the wire.
func textOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// idOf converts an id-like value to an integer vehicle id.
func idOf(v any) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		if err != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
