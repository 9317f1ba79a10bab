package lint

import (
	"fmt"
	"regexp"

	"github.com/openbindings/avrocheck-go"
)

// NullableDefault warns about union fields that include null but declare no default.
type NullableDefault struct{}

func (NullableDefault) Name() string { return "nullable-default" }

func (r NullableDefault) Check(doc *avrocheck.Document) []Warning {
	var out []Warning
	visitFields(doc, func(_ *avrocheck.Node, f *avrocheck.Field) {
		if f.Type.HasNullBranch() && !f.HasDefault {
			out = append(out, Warning{
				Rule:    r.Name(),
				Path:    f.Location,
				Message: fmt.Sprintf("Field '%s' is nullable but has no default", f.Name),
			})
		}
	})
	return out
}

var (
	lowerCamelRe = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	snakeCaseRe  = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)
	pascalCaseRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
)

// FieldCasing warns about field names that are neither lowerCamelCase nor snake_case.
type FieldCasing struct{}

func (FieldCasing) Name() string { return "field-casing" }

func (r FieldCasing) Check(doc *avrocheck.Document) []Warning {
	var out []Warning
	visitFields(doc, func(_ *avrocheck.Node, f *avrocheck.Field) {
		if !lowerCamelRe.MatchString(f.Name) && !snakeCaseRe.MatchString(f.Name) {
			out = append(out, Warning{
				Rule:    r.Name(),
				Path:    f.Location,
				Message: fmt.Sprintf("Field '%s' should be lowerCamelCase or snake_case", f.Name),
			})
		}
	})
	return out
}

// TypeCasing warns about named types that are not PascalCase.
type TypeCasing struct{}

func (TypeCasing) Name() string { return "type-casing" }

func (r TypeCasing) Check(doc *avrocheck.Document) []Warning {
	var out []Warning
	visit(doc, func(n *avrocheck.Node, path string) {
		if n.IsNamed() && !pascalCaseRe.MatchString(n.Name) {
			out = append(out, Warning{
				Rule:    r.Name(),
				Path:    path,
				Message: fmt.Sprintf("Type '%s' should be PascalCase", n.FullName()),
			})
		}
	})
	return out
}

// NullFirst warns about unions where null is present but not the first branch, which
// prevents a null default.
type NullFirst struct{}

func (NullFirst) Name() string { return "null-first" }

func (r NullFirst) Check(doc *avrocheck.Document) []Warning {
	var out []Warning
	visit(doc, func(n *avrocheck.Node, path string) {
		if n.HasNullBranch() && !n.Branches[0].IsNull() {
			out = append(out, Warning{
				Rule:    r.Name(),
				Path:    path,
				Message: "Union contains null but null is not the first branch",
			})
		}
	})
	return out
}

// EnumDefault warns about enums without a default symbol; adding symbols to them later
// breaks readers on the old version.
type EnumDefault struct{}

func (EnumDefault) Name() string { return "enum-default" }

func (r EnumDefault) Check(doc *avrocheck.Document) []Warning {
	var out []Warning
	visit(doc, func(n *avrocheck.Node, path string) {
		if n.Kind == avrocheck.KindEnum && !n.HasDefault {
			out = append(out, Warning{
				Rule:    r.Name(),
				Path:    path,
				Message: fmt.Sprintf("Enum '%s' has no default symbol", n.FullName()),
			})
		}
	})
	return out
}
