package avrocheck

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
	"unicode/utf8"
)

// checkDefault reports why val is not a valid default for t, or "" when it is.
// where names the position inside the default value for nested problems.
func (v *validator) checkDefault(t *Node, val any, where string) string {
	t = t.Resolve()
	if t == nil {
		return ""
	}
	switch t.Kind {
	case KindPrimitive:
		return checkPrimitiveDefault(t.Primitive, val, where)
	case KindEnum:
		s, ok := val.(string)
		if !ok {
			return fmt.Sprintf("%s: expected enum symbol string for %q, got %s", where, t.FullName(), jsonKind(val))
		}
		for _, sym := range t.Symbols {
			if sym == s {
				return ""
			}
		}
		return fmt.Sprintf("%s: %q is not a symbol of enum %q", where, s, t.FullName())
	case KindFixed:
		s, ok := val.(string)
		if !ok {
			return fmt.Sprintf("%s: expected string for fixed %q, got %s", where, t.FullName(), jsonKind(val))
		}
		if t.Size > 0 && utf8.RuneCountInString(s) != t.Size {
			return fmt.Sprintf("%s: fixed %q needs %d bytes, got %d", where, t.FullName(), t.Size, utf8.RuneCountInString(s))
		}
		return checkByteString(s, where)
	case KindArray:
		arr, ok := val.([]any)
		if !ok {
			return fmt.Sprintf("%s: expected array, got %s", where, jsonKind(val))
		}
		for i, it := range arr {
			if msg := v.checkDefault(t.Items, it, fmt.Sprintf("%s[%d]", where, i)); msg != "" {
				return msg
			}
		}
		return ""
	case KindMap:
		m, ok := val.(map[string]any)
		if !ok {
			return fmt.Sprintf("%s: expected object for map, got %s", where, jsonKind(val))
		}
		for _, k := range sortedKeys(m) {
			if msg := v.checkDefault(t.Values, m[k], fmt.Sprintf("%s[%q]", where, k)); msg != "" {
				return msg
			}
		}
		return ""
	case KindRecord:
		m, ok := val.(map[string]any)
		if !ok {
			return fmt.Sprintf("%s: expected object for record %q, got %s", where, t.FullName(), jsonKind(val))
		}
		for _, f := range t.Fields {
			fv, present := m[f.Name]
			if !present {
				if f.HasDefault {
					continue
				}
				return fmt.Sprintf("%s: missing value for field %q of record %q", where, f.Name, t.FullName())
			}
			if msg := v.checkDefault(f.Type, fv, where+"."+f.Name); msg != "" {
				return msg
			}
		}
		return ""
	case KindUnion:
		if len(t.Branches) == 0 {
			return fmt.Sprintf("%s: union has no branches", where)
		}
		first := v.checkDefault(t.Branches[0], val, where)
		if first == "" {
			return ""
		}
		if v.opts.unionDefaultAnyBranch {
			for _, b := range t.Branches[1:] {
				if v.checkDefault(b, val, where) == "" {
					return ""
				}
			}
			return fmt.Sprintf("%s: matches no branch of the union", where)
		}
		return fmt.Sprintf("%s: union default must match the first branch (%s): %s", where, t.Branches[0].TypeName(), first)
	}
	return ""
}

func checkPrimitiveDefault(p Primitive, val any, where string) string {
	switch p {
	case Null:
		if val != nil {
			return fmt.Sprintf("%s: expected null, got %s", where, jsonKind(val))
		}
	case Boolean:
		if _, ok := val.(bool); !ok {
			return fmt.Sprintf("%s: expected boolean, got %s", where, jsonKind(val))
		}
	case Int:
		return checkInteger(val, math.MinInt32, math.MaxInt32, "int", where)
	case Long:
		return checkInteger(val, math.MinInt64, math.MaxInt64, "long", where)
	case Float, Double:
		if _, ok := asNumber(val); !ok {
			return fmt.Sprintf("%s: expected number for %s, got %s", where, p, jsonKind(val))
		}
	case Bytes:
		s, ok := val.(string)
		if !ok {
			return fmt.Sprintf("%s: expected string for bytes, got %s", where, jsonKind(val))
		}
		return checkByteString(s, where)
	case String:
		if _, ok := val.(string); !ok {
			return fmt.Sprintf("%s: expected string, got %s", where, jsonKind(val))
		}
	}
	return ""
}

func checkInteger(val any, min, max int64, name, where string) string {
	num, ok := asNumber(val)
	if !ok {
		return fmt.Sprintf("%s: expected integer for %s, got %s", where, name, jsonKind(val))
	}
	// Integer defaults must be written as integer literals, so 1.0 and 1e2 are rejected.
	if strings.ContainsAny(num.String(), ".eE") {
		return fmt.Sprintf("%s: expected integer for %s, got %s", where, name, num)
	}
	r, ok := new(big.Rat).SetString(num.String())
	if !ok || !r.IsInt() {
		return fmt.Sprintf("%s: expected integer for %s, got %s", where, name, num)
	}
	i := r.Num()
	if i.Cmp(big.NewInt(min)) < 0 || i.Cmp(big.NewInt(max)) > 0 {
		return fmt.Sprintf("%s: %s out of range for %s", where, num, name)
	}
	return ""
}

// checkByteString enforces the Avro convention that bytes defaults are strings whose
// code points are all in 0-255.
func checkByteString(s, where string) string {
	for _, r := range s {
		if r > 0xFF {
			return fmt.Sprintf("%s: bytes default contains code point U+%04X above U+00FF", where, r)
		}
	}
	return ""
}

func asNumber(val any) (json.Number, bool) {
	switch x := val.(type) {
	case json.Number:
		return x, true
	case float64:
		return json.Number(fmt.Sprint(x)), true
	case int:
		return json.Number(fmt.Sprint(x)), true
	case int64:
		return json.Number(fmt.Sprint(x)), true
	}
	return "", false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
