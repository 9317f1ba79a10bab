package lint

import (
	"fmt"

	"github.com/openbindings/avrocheck-go"
)

// Warning is one advisory finding.
type Warning struct {
	Rule    string
	Path    string
	Message string
}

func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("[%s] %s", w.Rule, w.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", w.Path, w.Rule, w.Message)
}

// Rule is a single lint check.
type Rule interface {
	Name() string
	Check(doc *avrocheck.Document) []Warning
}

type options struct {
	disabled map[string]bool
	extra    []Rule
}

// Option configures Lint.
type Option func(*options)

// WithDisabled turns off the named rules.
func WithDisabled(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.disabled[n] = true
		}
	}
}

// WithRules adds rules that run after the built-in ones.
func WithRules(rules ...Rule) Option {
	return func(o *options) { o.extra = append(o.extra, rules...) }
}

// Defaults returns the built-in rules in the order they run.
func Defaults() []Rule {
	return []Rule{
		NullableDefault{},
		FieldCasing{},
		TypeCasing{},
		NullFirst{},
		LogicalTypes{},
		EnumDefault{},
	}
}

// Lint runs the built-in rules plus any added with WithRules, minus disabled ones.
func Lint(doc *avrocheck.Document, opts ...Option) []Warning {
	o := options{disabled: map[string]bool{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	var rules []Rule
	for _, r := range append(Defaults(), o.extra...) {
		if !o.disabled[r.Name()] {
			rules = append(rules, r)
		}
	}
	return Run(doc, rules...)
}

// Run applies rules in order and concatenates their warnings.
func Run(doc *avrocheck.Document, rules ...Rule) []Warning {
	if doc == nil || doc.Root == nil {
		return nil
	}
	var out []Warning
	for _, r := range rules {
		if r == nil {
			continue
		}
		out = append(out, r.Check(doc)...)
	}
	return out
}

// visit calls fn for every node of the tree with its path. References are not followed,
// so each named type is visited once, at its definition.
func visit(doc *avrocheck.Document, fn func(n *avrocheck.Node, path string)) {
	var walk func(n *avrocheck.Node, path string)
	walk = func(n *avrocheck.Node, path string) {
		if n == nil {
			return
		}
		fn(n, path)
		switch n.Kind {
		case avrocheck.KindRecord:
			for _, f := range n.Fields {
				walk(f.Type, f.Location)
			}
		case avrocheck.KindArray:
			walk(n.Items, path+"[]")
		case avrocheck.KindMap:
			walk(n.Values, path+"{}")
		case avrocheck.KindUnion:
			for i, b := range n.Branches {
				walk(b, fmt.Sprintf("%s[%d]", path, i))
			}
		}
	}
	walk(doc.Root, doc.Root.Location)
}

// visitFields calls fn for every field of every record definition.
func visitFields(doc *avrocheck.Document, fn func(rec *avrocheck.Node, f *avrocheck.Field)) {
	visit(doc, func(n *avrocheck.Node, _ string) {
		if n.Kind != avrocheck.KindRecord {
			return
		}
		for _, f := range n.Fields {
			fn(n, f)
		}
	})
}
