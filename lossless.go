package avrocheck

import (
	"encoding/json"
	"sort"
)

// Attribute names interpreted by the model. Anything else is kept in Props.
var (
	knownTypeSet = knownSet(
		"type", "name", "namespace", "doc", "aliases",
		"fields", "symbols", "default", "items", "values", "size", "logicalType",
	)
	knownFieldSet = knownSet(
		"name", "doc", "type", "default", "aliases", "order",
	)
)

// splitProps collects the attributes of raw that are not in known.
func splitProps(raw map[string]any, known map[string]struct{}) (map[string]json.RawMessage, error) {
	var props map[string]json.RawMessage
	for k, v := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if props == nil {
			props = map[string]json.RawMessage{}
		}
		props[k] = b
	}
	return props, nil
}

// knownSet builds a map for constant-time known-attribute checks.
func knownSet(keys ...string) map[string]struct{} {
	if len(keys) == 0 {
		return map[string]struct{}{}
	}
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

// orderedObject is a JSON object that keeps insertion order, with Props appended after
// the typed attributes. Typed attributes win over colliding Props.
type orderedObject struct {
	keys []string
	vals map[string]any
}

func (o *orderedObject) set(k string, v any) {
	if o.vals == nil {
		o.vals = map[string]any{}
	}
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

func (o *orderedObject) addProps(props map[string]json.RawMessage) {
	keys := make([]string, 0, len(props))
	for k := range props {
		if _, ok := o.vals[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.set(k, props[k])
	}
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}

// MarshalJSON writes the node back in Avro JSON form. Named types are written in full,
// references as their fullname, and unknown attributes are preserved.
func (n *Node) MarshalJSON() ([]byte, error) {
	v, err := n.jsonValue()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (n *Node) jsonValue() (any, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case KindReference:
		return n.FullName(), nil
	case KindUnion:
		out := make([]any, 0, len(n.Branches))
		for _, b := range n.Branches {
			v, err := b.jsonValue()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case KindPrimitive:
		if n.LogicalType == "" && len(n.Props) == 0 {
			return string(n.Primitive), nil
		}
		var o orderedObject
		o.set("type", string(n.Primitive))
		if n.LogicalType != "" {
			o.set("logicalType", n.LogicalType)
		}
		o.addProps(n.Props)
		return o, nil
	}

	var o orderedObject
	o.set("type", string(n.Kind))
	if n.IsNamed() {
		o.set("name", n.Name)
		if n.Namespace != "" {
			o.set("namespace", n.Namespace)
		}
		if n.Doc != "" {
			o.set("doc", n.Doc)
		}
		if len(n.Aliases) > 0 {
			o.set("aliases", n.Aliases)
		}
	}
	switch n.Kind {
	case KindRecord:
		fields := make([]any, 0, len(n.Fields))
		for _, f := range n.Fields {
			fv, err := f.jsonValue()
			if err != nil {
				return nil, err
			}
			fields = append(fields, fv)
		}
		o.set("fields", fields)
	case KindEnum:
		o.set("symbols", n.Symbols)
		if n.HasDefault {
			o.set("default", n.Default)
		}
	case KindFixed:
		o.set("size", n.Size)
	case KindArray:
		v, err := n.Items.jsonValue()
		if err != nil {
			return nil, err
		}
		o.set("items", v)
	case KindMap:
		v, err := n.Values.jsonValue()
		if err != nil {
			return nil, err
		}
		o.set("values", v)
	}
	if n.LogicalType != "" {
		o.set("logicalType", n.LogicalType)
	}
	o.addProps(n.Props)
	return o, nil
}

func (f *Field) jsonValue() (any, error) {
	var o orderedObject
	o.set("name", f.Name)
	if f.Doc != "" {
		o.set("doc", f.Doc)
	}
	t, err := f.Type.jsonValue()
	if err != nil {
		return nil, err
	}
	o.set("type", t)
	if f.HasDefault {
		o.set("default", f.Default)
	}
	if len(f.Aliases) > 0 {
		o.set("aliases", f.Aliases)
	}
	if f.Order != "" {
		o.set("order", f.Order)
	}
	o.addProps(f.Props)
	return o, nil
}

// MarshalJSON writes the document's root schema.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	return d.Root.MarshalJSON()
}
