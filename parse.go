package avrocheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// Parse builds a Document from schema JSON text.
//
// Construction is two passes: the tree is built top-down, registering named types as they
// are met, then every reference is resolved against the registry. Forward references are
// therefore allowed. Parse fails with *ParseError, *DuplicateTypeError or
// *UnresolvedReferenceError.
func Parse(text string) (*Document, error) {
	v, err := decodeJSON([]byte(text))
	if err != nil {
		return nil, err
	}
	p := &parser{registry: map[string]*Node{}}
	root, err := p.parseType(v, "", "")
	if err != nil {
		return nil, err
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	return &Document{Root: root, registry: p.registry}, nil
}

type parser struct {
	registry map[string]*Node
	refs     []*Node
}

func (p *parser) parseType(v any, ns, path string) (*Node, error) {
	switch x := v.(type) {
	case string:
		return p.parseName(x, ns, path)
	case []any:
		return p.parseUnion(x, ns, path)
	case map[string]any:
		return p.parseObject(x, ns, path)
	case nil:
		return nil, &ParseError{Message: "type must not be null", Location: pathOrRoot(path)}
	default:
		return nil, &ParseError{Message: fmt.Sprintf("type must be a string, array or object (got %s)", jsonKind(v)), Location: pathOrRoot(path)}
	}
}

func (p *parser) parseName(name, ns, path string) (*Node, error) {
	if prim, ok := primitives[name]; ok {
		return &Node{Kind: KindPrimitive, Primitive: prim, Location: path}, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, &ParseError{Message: "type name must not be empty", Location: pathOrRoot(path)}
	}
	ref := &Node{Kind: KindReference, Name: name, Namespace: ns, Location: path}
	p.refs = append(p.refs, ref)
	return ref, nil
}

func (p *parser) parseUnion(branches []any, ns, path string) (*Node, error) {
	n := &Node{Kind: KindUnion, Location: path, Branches: make([]*Node, 0, len(branches))}
	for i, b := range branches {
		bn, err := p.parseType(b, ns, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		n.Branches = append(n.Branches, bn)
	}
	return n, nil
}

func (p *parser) parseObject(m map[string]any, ns, path string) (*Node, error) {
	t, ok := m["type"]
	if !ok {
		return nil, &ParseError{Message: "missing 'type' field", Location: pathOrRoot(path)}
	}
	ts, isString := t.(string)
	if !isString {
		// {"type": {...}} or {"type": [...]} wraps another type.
		return p.parseWrapped(m, t, ns, path)
	}

	var (
		n   *Node
		err error
	)
	switch ts {
	case "record", "error":
		n, err = p.parseRecord(m, ns, path)
	case "enum":
		n, err = p.parseEnum(m, ns, path)
	case "fixed":
		n, err = p.parseFixed(m, ns, path)
	case "array":
		n = &Node{Kind: KindArray, Location: path}
		items, ok := m["items"]
		if !ok {
			return nil, &ParseError{Message: "array type missing 'items'", Location: pathOrRoot(path)}
		}
		n.Items, err = p.parseType(items, ns, path+"[]")
	case "map":
		n = &Node{Kind: KindMap, Location: path}
		values, ok := m["values"]
		if !ok {
			return nil, &ParseError{Message: "map type missing 'values'", Location: pathOrRoot(path)}
		}
		n.Values, err = p.parseType(values, ns, path+"{}")
	default:
		if prim, ok := primitives[ts]; ok {
			n = &Node{Kind: KindPrimitive, Primitive: prim, Location: path}
		} else {
			// A named type written in object form, e.g. {"type": "com.acme.Id"}.
			n, err = p.parseName(ts, ns, path)
			if err != nil {
				return nil, err
			}
			if n.Kind == KindReference {
				return n, nil
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if lt, ok := m["logicalType"]; ok {
		s, ok := lt.(string)
		if !ok {
			return nil, &ParseError{Message: "logicalType must be a string", Location: pathOrRoot(path)}
		}
		n.LogicalType = s
	}
	if !n.IsNamed() {
		if d, ok := m["doc"].(string); ok {
			n.Doc = d
		}
	}
	n.Props, err = splitProps(m, knownTypeSet)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Location: pathOrRoot(path)}
	}
	return n, nil
}

// parseWrapped parses the type inside a wrapper object at the wrapper's own path, then
// carries the wrapper's logicalType and extra attributes onto it. Attributes already set
// on the inner type win.
func (p *parser) parseWrapped(m map[string]any, inner any, ns, path string) (*Node, error) {
	n, err := p.parseType(inner, ns, path)
	if err != nil {
		return nil, err
	}
	if n.Kind == KindReference {
		return n, nil
	}
	if lt, ok := m["logicalType"]; ok {
		s, ok := lt.(string)
		if !ok {
			return nil, &ParseError{Message: "logicalType must be a string", Location: pathOrRoot(path)}
		}
		if n.LogicalType == "" {
			n.LogicalType = s
		}
	}
	outer, err := splitProps(m, knownTypeSet)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Location: pathOrRoot(path)}
	}
	for k, v := range outer {
		if _, ok := n.Props[k]; ok {
			continue
		}
		if n.Props == nil {
			n.Props = map[string]json.RawMessage{}
		}
		n.Props[k] = v
	}
	return n, nil
}

// parseNamed reads name, namespace, doc and aliases, and registers the type.
func (p *parser) parseNamed(kind Kind, m map[string]any, ns, path string) (*Node, error) {
	rawName, ok := m["name"]
	if !ok {
		return nil, &ParseError{Message: fmt.Sprintf("%s type missing 'name'", kind), Location: pathOrRoot(path)}
	}
	name, ok := rawName.(string)
	if !ok {
		return nil, &ParseError{Message: "name must be a string", Location: pathOrRoot(path)}
	}

	n := &Node{Kind: kind, Location: path}
	if strings.Contains(name, ".") {
		n.Namespace, n.Name = splitFullName(name)
	} else {
		n.Name = name
		n.Namespace = ns
		if rawNS, ok := m["namespace"]; ok && rawNS != nil {
			s, ok := rawNS.(string)
			if !ok {
				return nil, &ParseError{Message: "namespace must be a string", Location: pathOrRoot(path)}
			}
			n.Namespace = s
		}
	}
	if d, ok := m["doc"]; ok {
		s, ok := d.(string)
		if !ok {
			return nil, &ParseError{Message: "doc must be a string", Location: pathOrRoot(path)}
		}
		n.Doc = s
	}
	aliases, err := stringList(m, "aliases", path)
	if err != nil {
		return nil, err
	}
	for _, a := range aliases {
		n.Aliases = append(n.Aliases, qualify(n.Namespace, a))
	}

	fn := n.FullName()
	if prev, exists := p.registry[fn]; exists {
		return nil, &DuplicateTypeError{Name: fn, Location: joinLocations(prev.Location, path)}
	}
	p.registry[fn] = n
	return n, nil
}

func (p *parser) parseRecord(m map[string]any, ns, path string) (*Node, error) {
	if _, ok := m["fields"]; !ok {
		return nil, &ParseError{Message: "record type missing 'fields'", Location: pathOrRoot(path)}
	}
	n, err := p.parseNamed(KindRecord, m, ns, path)
	if err != nil {
		return nil, err
	}
	if path == "" {
		// Field paths read better with the record name as the root segment.
		path = n.Name
		n.Location = path
	}
	rawFields, ok := m["fields"].([]any)
	if !ok {
		return nil, &ParseError{Message: "fields must be an array", Location: pathOrRoot(path)}
	}
	n.Fields = make([]*Field, 0, len(rawFields))
	for i, rf := range rawFields {
		f, err := p.parseField(rf, n.Namespace, path, i)
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, f)
	}
	return n, nil
}

func (p *parser) parseField(v any, ns, recordPath string, idx int) (*Field, error) {
	at := fmt.Sprintf("%s.fields[%d]", recordPath, idx)
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Message: "field must be an object", Location: at}
	}
	rawName, ok := m["name"]
	if !ok {
		return nil, &ParseError{Message: "field missing 'name'", Location: at}
	}
	name, ok := rawName.(string)
	if !ok {
		return nil, &ParseError{Message: "field name must be a string", Location: at}
	}
	fieldPath := joinPath(recordPath, name)
	if name == "" {
		fieldPath = at
	}
	t, ok := m["type"]
	if !ok {
		return nil, &ParseError{Message: "field missing 'type'", Location: fieldPath}
	}
	typ, err := p.parseType(t, ns, fieldPath)
	if err != nil {
		return nil, err
	}

	f := &Field{Name: name, Type: typ, Location: fieldPath}
	f.Default, f.HasDefault = m["default"]
	if d, ok := m["doc"]; ok {
		s, ok := d.(string)
		if !ok {
			return nil, &ParseError{Message: "doc must be a string", Location: fieldPath}
		}
		f.Doc = s
	}
	if o, ok := m["order"]; ok {
		s, ok := o.(string)
		if !ok {
			return nil, &ParseError{Message: "order must be a string", Location: fieldPath}
		}
		f.Order = s
	}
	f.Aliases, err = stringList(m, "aliases", fieldPath)
	if err != nil {
		return nil, err
	}
	f.Props, err = splitProps(m, knownFieldSet)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Location: fieldPath}
	}
	return f, nil
}

func (p *parser) parseEnum(m map[string]any, ns, path string) (*Node, error) {
	n, err := p.parseNamed(KindEnum, m, ns, path)
	if err != nil {
		return nil, err
	}
	if _, ok := m["symbols"]; !ok {
		return nil, &ParseError{Message: "enum type missing 'symbols'", Location: pathOrRoot(path)}
	}
	n.Symbols, err = stringList(m, "symbols", path)
	if err != nil {
		return nil, err
	}
	if d, ok := m["default"]; ok {
		n.Default, n.HasDefault = d, true
	}
	return n, nil
}

func (p *parser) parseFixed(m map[string]any, ns, path string) (*Node, error) {
	n, err := p.parseNamed(KindFixed, m, ns, path)
	if err != nil {
		return nil, err
	}
	raw, ok := m["size"]
	if !ok {
		return n, nil
	}
	n.Size = -1
	if num, ok := raw.(json.Number); ok {
		if i, err := num.Int64(); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
			n.Size = int(i)
		}
	}
	return n, nil
}

// resolve links every reference to its definition.
func (p *parser) resolve() error {
	for _, ref := range p.refs {
		for _, candidate := range referenceCandidates(ref.Namespace, ref.Name) {
			if def, ok := p.registry[candidate]; ok {
				ref.target = def
				break
			}
		}
		if ref.target == nil {
			return &UnresolvedReferenceError{Name: ref.Name, Location: ref.Location}
		}
	}
	return nil
}

func referenceCandidates(ns, name string) []string {
	if strings.Contains(name, ".") || ns == "" {
		return []string{name}
	}
	return []string{fullName(ns, name), name}
}

func stringList(m map[string]any, key, path string) ([]string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, &ParseError{Message: fmt.Sprintf("%s must be an array of strings", key), Location: pathOrRoot(path)}
	}
	out := make([]string, 0, len(arr))
	for _, it := range arr {
		s, ok := it.(string)
		if !ok {
			return nil, &ParseError{Message: fmt.Sprintf("%s must be an array of strings", key), Location: pathOrRoot(path)}
		}
		out = append(out, s)
	}
	return out, nil
}

func joinLocations(first, second string) string {
	if first == second {
		return pathOrRoot(second)
	}
	return pathOrRoot(second) + " (first defined at " + pathOrRoot(first) + ")"
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// decodeJSON decodes a single JSON value with UseNumber to preserve numeric intent.
func decodeJSON(b []byte) (any, error) {
	if off := invalidUTF8(b); off >= 0 {
		return nil, &ParseError{Message: "invalid UTF-8", Location: offsetLocation(b, int64(off))}
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, syntaxError(b, err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, &ParseError{Message: "invalid JSON: trailing data", Location: offsetLocation(b, dec.InputOffset())}
	}
	return v, nil
}

// invalidUTF8 returns the offset of the first malformed byte sequence in b, or -1.
func invalidUTF8(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for off := 0; off < len(b); {
		r, size := utf8.DecodeRune(b[off:])
		if r == utf8.RuneError && size == 1 {
			return off
		}
		off += size
	}
	return -1
}

func syntaxError(b []byte, err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &ParseError{Message: "invalid JSON: " + se.Error(), Location: offsetLocation(b, se.Offset)}
	}
	if errors.Is(err, io.EOF) {
		return &ParseError{Message: "invalid JSON: empty document"}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{Message: "invalid JSON: unexpected end of input", Location: offsetLocation(b, int64(len(b)))}
	}
	return &ParseError{Message: "invalid JSON: " + err.Error()}
}

func offsetLocation(b []byte, off int64) string {
	if off > int64(len(b)) {
		off = int64(len(b))
	}
	line, col := 1, 1
	for _, c := range b[:off] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return fmt.Sprintf("line %d, column %d", line, col)
}
