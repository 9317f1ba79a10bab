package avrocheck

import (
	"fmt"
	"strings"
)

type validateOptions struct {
	allowEmptyRecords     bool
	unionDefaultAnyBranch bool
}

// ValidateOption configures Validate.
type ValidateOption func(*validateOptions)

// WithAllowEmptyRecords accepts records that declare no fields.
// By default a record must have at least one field.
func WithAllowEmptyRecords() ValidateOption {
	return func(o *validateOptions) { o.allowEmptyRecords = true }
}

// WithUnionDefaultAnyBranch accepts a union default that matches any branch.
// By default the default must match the first branch.
func WithUnionDefaultAnyBranch() ValidateOption {
	return func(o *validateOptions) { o.unionDefaultAnyBranch = true }
}

// ValidationResult is the outcome of Validate. OK is true when Errors is empty.
type ValidationResult struct {
	OK     bool
	Errors []ValidationError
}

// Err returns nil for a valid result, or an *InvalidSchemaError listing every problem.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &InvalidSchemaError{Problems: r.Errors}
}

var validOrders = map[string]struct{}{
	"ascending":  {},
	"descending": {},
	"ignore":     {},
}

// Validate checks a parsed document for structural well-formedness. Every check runs
// and every problem is reported; the walk never stops early.
func Validate(doc *Document, opts ...ValidateOption) ValidationResult {
	o := validateOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	v := &validator{opts: o}
	if doc == nil || doc.Root == nil {
		v.add("", "document is empty")
	} else {
		v.walk(doc.Root, doc.Root.Location)
	}
	return ValidationResult{OK: len(v.errs) == 0, Errors: v.errs}
}

type validator struct {
	opts validateOptions
	errs []ValidationError
}

func (v *validator) add(path, msg string) {
	v.errs = append(v.errs, ValidationError{Path: path, Message: msg})
}

func (v *validator) addf(path, format string, args ...any) {
	v.add(path, fmt.Sprintf(format, args...))
}

// walk visits every node of the tree once. References are not followed: each named
// type is defined exactly once, so the walk covers every definition.
func (v *validator) walk(n *Node, path string) {
	if n == nil {
		return
	}
	if n.IsNamed() {
		v.checkNames(n, path)
	}
	switch n.Kind {
	case KindRecord:
		v.checkRecord(n, path)
	case KindEnum:
		v.checkEnum(n, path)
	case KindFixed:
		if n.Size <= 0 {
			v.addf(path, "fixed %q: size must be a positive integer", n.FullName())
		}
	case KindArray:
		v.walk(n.Items, path+"[]")
	case KindMap:
		v.walk(n.Values, path+"{}")
	case KindUnion:
		v.checkUnion(n, path)
	}
}

func (v *validator) checkNames(n *Node, path string) {
	if !IsIdentifier(n.Name) {
		v.addf(path, "type name %q must match [A-Za-z_][A-Za-z0-9_]*", n.Name)
	} else if IsPrimitiveName(n.Name) && n.Namespace == "" {
		v.addf(path, "type name %q redefines a primitive type", n.Name)
	}
	if n.Namespace != "" {
		for _, seg := range strings.Split(n.Namespace, ".") {
			if !IsIdentifier(seg) {
				v.addf(path, "namespace %q: segment %q must match [A-Za-z_][A-Za-z0-9_]*", n.Namespace, seg)
				break
			}
		}
	}
	for _, a := range n.Aliases {
		ns, name := splitFullName(a)
		valid := IsIdentifier(name)
		if ns != "" {
			for _, seg := range strings.Split(ns, ".") {
				valid = valid && IsIdentifier(seg)
			}
		}
		if !valid {
			v.addf(path, "alias %q is not a valid name", a)
		}
	}
}

func (v *validator) checkRecord(n *Node, path string) {
	if len(n.Fields) == 0 && !v.opts.allowEmptyRecords {
		v.addf(path, "record %q must have at least one field", n.FullName())
	}
	names := map[string]struct{}{}
	for _, f := range n.Fields {
		if _, dup := names[f.Name]; dup {
			v.addf(f.Location, "duplicate field name %q in record %q", f.Name, n.FullName())
		}
		names[f.Name] = struct{}{}
	}
	for _, f := range n.Fields {
		v.checkField(n, f, names)
	}
}

func (v *validator) checkField(rec *Node, f *Field, names map[string]struct{}) {
	if !IsIdentifier(f.Name) {
		v.addf(f.Location, "field name %q must match [A-Za-z_][A-Za-z0-9_]*", f.Name)
	}
	for _, a := range f.Aliases {
		if !IsIdentifier(a) {
			v.addf(f.Location, "field alias %q must match [A-Za-z_][A-Za-z0-9_]*", a)
			continue
		}
		if _, clash := names[a]; clash && a != f.Name {
			v.addf(f.Location, "field alias %q conflicts with field %q of record %q", a, a, rec.FullName())
		}
	}
	if f.Order != "" {
		if _, ok := validOrders[f.Order]; !ok {
			v.addf(f.Location, "order must be ascending, descending or ignore (got %q)", f.Order)
		}
	}
	v.walk(f.Type, f.Location)
	if f.HasDefault {
		if msg := v.checkDefault(f.Type, f.Default, "default"); msg != "" {
			v.addf(f.Location, "invalid default for field %q: %s", f.Name, msg)
		}
	}
}

func (v *validator) checkEnum(n *Node, path string) {
	if len(n.Symbols) == 0 {
		v.addf(path, "enum %q must have at least one symbol", n.FullName())
	}
	seen := map[string]struct{}{}
	for _, s := range n.Symbols {
		if !IsIdentifier(s) {
			v.addf(path, "enum %q: symbol %q must match [A-Za-z_][A-Za-z0-9_]*", n.FullName(), s)
		}
		if _, dup := seen[s]; dup {
			v.addf(path, "enum %q: duplicate symbol %q", n.FullName(), s)
		}
		seen[s] = struct{}{}
	}
	if n.HasDefault {
		s, ok := n.Default.(string)
		if !ok {
			v.addf(path, "enum %q: default must be a symbol string", n.FullName())
		} else if _, ok := seen[s]; !ok {
			v.addf(path, "enum %q: default %q is not one of its symbols", n.FullName(), s)
		}
	}
}

func (v *validator) checkUnion(n *Node, path string) {
	if len(n.Branches) == 0 {
		v.add(path, "union must have at least one branch")
	}
	seen := map[string]int{}
	nulls := 0
	for i, b := range n.Branches {
		bp := fmt.Sprintf("%s[%d]", path, i)
		if b.Kind == KindUnion {
			v.add(bp, "union must not directly contain another union")
		}
		if b.IsNull() {
			nulls++
		}
		key := b.TypeName()
		if prev, dup := seen[key]; dup && !b.IsNull() {
			v.addf(bp, "union branch %d duplicates branch %d (type %q)", i, prev, key)
		} else if !dup {
			seen[key] = i
		}
		v.walk(b, bp)
	}
	if nulls > 1 {
		v.addf(path, "union must contain at most one null branch (found %d)", nulls)
	}
}
