package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Value returns the RFC 8785 (JCS) encoding of a JSON value: object members sorted by
// UTF-16 code units, ECMAScript number formatting, no insignificant whitespace.
// json.RawMessage and []byte are taken as JSON text; anything else is marshaled first.
func Value(v any) ([]byte, error) {
	var text []byte
	switch x := v.(type) {
	case json.RawMessage:
		text = x
	case []byte:
		text = x
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		text = b
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON: trailing data")
	}

	var e encoder
	if err := e.value(decoded); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// Key returns a string that is equal for equal JSON values, so {"a":1,"b":2} and
// {"b":2,"a":1.0} share a key.
func Key(v any) string {
	b, err := Value(v)
	if err != nil {
		return "<unserializable>"
	}
	return string(b)
}

// Equal reports whether two decoded JSON values are the same value.
func Equal(a, b any) bool {
	return Key(a) == Key(b)
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) value(v any) error {
	switch x := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(x))
	case string:
		writeString(&e.buf, x)
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return fmt.Errorf("invalid JSON number %q: %w", x, err)
		}
		return e.number(f)
	case float64:
		return e.number(x)
	case []any:
		e.buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.value(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	case map[string]any:
		return e.object(x)
	default:
		return fmt.Errorf("unsupported JSON value type %T", v)
	}
	return nil
}

func (e *encoder) object(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
	})
	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		writeString(&e.buf, k)
		e.buf.WriteByte(':')
		if err := e.value(m[k]); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

// number writes f the way ECMAScript Number.prototype.toString does: plain decimal
// notation for 1e-6 <= |f| < 1e21, exponent notation without zero padding otherwise.
func (e *encoder) number(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("invalid JSON number: NaN or Infinity")
	}
	if f == 0 {
		e.buf.WriteByte('0')
		return nil
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		e.buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	e.buf.WriteString(mant + "e" + sign + digits)
	return nil
}

const hexDigits = "0123456789abcdef"

// writeString writes s as a JSON string. \b \t \n \f \r use their short escapes, other
// control characters \u00xx, everything else is written literally.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		case '\b':
			buf.WriteString(`\b`)
		case '\t':
			buf.WriteString(`\t`)
		case '\n':
			buf.WriteString(`\n`)
		case '\f':
			buf.WriteString(`\f`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[r>>4])
				buf.WriteByte(hexDigits[r&0xF])
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
