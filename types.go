package avrocheck

import (
	"encoding/json"
	"sort"
)

// Kind is the variant tag of a schema Node.
type Kind string

const (
	// KindPrimitive is one of the eight Avro primitive types.
	KindPrimitive Kind = "primitive"
	// KindRecord is a named record with an ordered list of fields.
	KindRecord Kind = "record"
	// KindEnum is a named enumeration of symbols.
	KindEnum Kind = "enum"
	// KindFixed is a named fixed-size byte sequence.
	KindFixed Kind = "fixed"
	// KindArray is an array of Items.
	KindArray Kind = "array"
	// KindMap is a string-keyed map of Values.
	KindMap Kind = "map"
	// KindUnion is an ordered set of branch types.
	KindUnion Kind = "union"
	// KindReference is a use of a named type declared elsewhere in the document.
	KindReference Kind = "reference"
)

// Primitive names one of the Avro primitive types.
type Primitive string

const (
	Null    Primitive = "null"
	Boolean Primitive = "boolean"
	Int     Primitive = "int"
	Long    Primitive = "long"
	Float   Primitive = "float"
	Double  Primitive = "double"
	Bytes   Primitive = "bytes"
	String  Primitive = "string"
)

var primitives = map[string]Primitive{
	"null":    Null,
	"boolean": Boolean,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"bytes":   Bytes,
	"string":  String,
}

// IsPrimitiveName reports whether s is the name of an Avro primitive type.
func IsPrimitiveName(s string) bool {
	_, ok := primitives[s]
	return ok
}

// Node is a single schema type. Which fields are meaningful depends on Kind.
//
// Named types (record, enum, fixed) are defined exactly once in a document; every
// other use of them is a KindReference node whose Target is the definition.
type Node struct {
	Kind      Kind
	Primitive Primitive // KindPrimitive

	// Name is the simple name of a named type, or the name as written for a reference.
	Name string
	// Namespace is the effective namespace of a named type, or the enclosing
	// namespace a reference was written in.
	Namespace string
	Doc       string
	// Aliases are fullnames.
	Aliases []string

	Fields   []*Field // record
	Branches []*Node  // union
	Items    *Node    // array
	Values   *Node    // map
	Symbols  []string // enum

	// Default is the enum default symbol when HasDefault is set.
	Default    any
	HasDefault bool

	// Size is the fixed size: 0 when absent, -1 when not an integer.
	Size int

	LogicalType string

	// Props keeps attributes the model does not interpret, as raw JSON.
	Props map[string]json.RawMessage

	// Location is the JSON path where this node was written.
	Location string

	target *Node
}

// Field is a single record field.
type Field struct {
	Name string
	Doc  string
	Type *Node

	// Default is the decoded JSON default (json.Number for numbers, nil for null).
	Default    any
	HasDefault bool

	// Aliases are alternate names used when matching fields across versions.
	Aliases []string
	Order   string

	Props map[string]json.RawMessage

	Location string
}

// IsNamed reports whether n defines a named type.
func (n *Node) IsNamed() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindRecord, KindEnum, KindFixed:
		return true
	}
	return false
}

// FullName returns namespace.name for named types and the resolved fullname for references.
func (n *Node) FullName() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindReference {
		if n.target != nil {
			return n.target.FullName()
		}
		return n.Name
	}
	return fullName(n.Namespace, n.Name)
}

// Target returns the definition a reference resolves to, or nil for any other node.
func (n *Node) Target() *Node {
	if n == nil {
		return nil
	}
	return n.target
}

// Resolve follows references and returns the defining node.
func (n *Node) Resolve() *Node {
	if n != nil && n.Kind == KindReference && n.target != nil {
		return n.target
	}
	return n
}

// IsNull reports whether n is the null primitive.
func (n *Node) IsNull() bool {
	return n != nil && n.Kind == KindPrimitive && n.Primitive == Null
}

// HasNullBranch reports whether n is a union that includes null.
func (n *Node) HasNullBranch() bool {
	if n == nil || n.Kind != KindUnion {
		return false
	}
	for _, b := range n.Branches {
		if b.IsNull() {
			return true
		}
	}
	return false
}

// TypeName is the name used to tell union branches apart: the primitive name, the
// fullname of a named type, or "array", "map", "union".
func (n *Node) TypeName() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindPrimitive:
		return string(n.Primitive)
	case KindRecord, KindEnum, KindFixed, KindReference:
		return n.FullName()
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindUnion:
		return "union"
	default:
		return string(n.Kind)
	}
}

// Field returns the field called name, or nil.
func (n *Node) Field(name string) *Field {
	if n == nil {
		return nil
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Document is a parsed schema: a root type plus the registry of the named types it declares.
// A Document is not modified after Parse returns and is safe for concurrent reads.
type Document struct {
	Root *Node

	registry map[string]*Node
}

// Lookup returns the named type registered under fullname.
func (d *Document) Lookup(fullname string) (*Node, bool) {
	if d == nil {
		return nil, false
	}
	n, ok := d.registry[fullname]
	return n, ok
}

// Names returns the fullnames of all named types, sorted.
func (d *Document) Names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.registry))
	for k := range d.registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
