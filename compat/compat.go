package compat

import (
	"fmt"

	"github.com/openbindings/avrocheck-go"
	"github.com/openbindings/avrocheck-go/canonical"
)

// Check reports whether reader and writer are compatible under mode. Transitive modes
// behave like their base mode for a single pair; use CheckHistory for version lists.
func Check(reader, writer *avrocheck.Document, mode Mode) Verdict {
	if !mode.Valid() {
		return verdict(mode, []Issue{{Kind: InvalidMode, Message: fmt.Sprintf("unknown compatibility mode %q", mode)}})
	}
	if mode.Base() == None {
		return verdict(mode, nil)
	}
	if reader == nil || reader.Root == nil || writer == nil || writer.Root == nil {
		return verdict(mode, []Issue{{Kind: TypeMismatch, Message: "both schemas are required"}})
	}
	if canonical.ParsingForm(reader) == canonical.ParsingForm(writer) {
		return verdict(mode, nil)
	}

	var issues []Issue
	if mode.backward() {
		issues = append(issues, canRead(reader.Root, writer.Root, DirectionBackward)...)
	}
	if mode.forward() {
		issues = append(issues, canRead(writer.Root, reader.Root, DirectionForward)...)
	}
	return verdict(mode, issues)
}

// canRead collects every reason data written with w cannot be read with r.
func canRead(r, w *avrocheck.Node, dir Direction) []Issue {
	c := &checker{dir: dir, inProgress: map[nodePair]bool{}}
	c.check(r, w, rootPath(r))
	return c.issues
}

func rootPath(n *avrocheck.Node) string {
	n = n.Resolve()
	if n != nil && n.Kind == avrocheck.KindRecord {
		return n.Name
	}
	return ""
}

type nodePair struct {
	r, w *avrocheck.Node
}

type checker struct {
	dir    Direction
	issues []Issue
	// inProgress holds pairs currently being compared; a pair met again is assumed
	// compatible so recursive types terminate.
	inProgress map[nodePair]bool
}

func (c *checker) addf(path string, kind IssueKind, format string, args ...any) {
	c.issues = append(c.issues, Issue{Path: path, Kind: kind, Message: fmt.Sprintf(format, args...), Direction: c.dir})
}

// trial returns a checker whose issues are discarded unless the caller keeps them.
func (c *checker) trial() *checker {
	return &checker{dir: c.dir, inProgress: c.inProgress}
}

func (c *checker) check(r, w *avrocheck.Node, path string) {
	r, w = r.Resolve(), w.Resolve()
	if r == nil || w == nil {
		c.addf(path, TypeMismatch, "missing type")
		return
	}
	key := nodePair{r, w}
	if c.inProgress[key] {
		return
	}
	c.inProgress[key] = true
	defer delete(c.inProgress, key)

	if w.Kind == avrocheck.KindUnion {
		for i, b := range w.Branches {
			c.checkBranch(r, b, fmt.Sprintf("%s[%d]", path, i))
		}
		return
	}
	if r.Kind == avrocheck.KindUnion {
		c.checkBranch(r, w, path)
		return
	}

	switch {
	case r.Kind == avrocheck.KindPrimitive && w.Kind == avrocheck.KindPrimitive:
		if !promotable(w.Primitive, r.Primitive) {
			c.addf(path, TypeMismatch, "reader type %s cannot read writer type %s", r.Primitive, w.Primitive)
		}
	case r.Kind != w.Kind:
		c.addf(path, TypeMismatch, "reader type %s cannot read writer type %s", r.TypeName(), w.TypeName())
	case r.Kind == avrocheck.KindRecord:
		c.checkRecord(r, w, path)
	case r.Kind == avrocheck.KindEnum:
		c.checkEnum(r, w, path)
	case r.Kind == avrocheck.KindFixed:
		if !namesMatch(r, w) {
			c.addf(path, NameMismatch, "reader fixed %q does not match writer fixed %q", r.FullName(), w.FullName())
			return
		}
		if r.Size != w.Size {
			c.addf(path, FixedSizeMismatch, "fixed %q: reader size %d, writer size %d", r.FullName(), r.Size, w.Size)
		}
	case r.Kind == avrocheck.KindArray:
		c.check(r.Items, w.Items, path+"[]")
	case r.Kind == avrocheck.KindMap:
		c.check(r.Values, w.Values, path+"{}")
	}
}

// checkBranch checks a single writer type against r, which may be a union. A reader union
// accepts the first branch that reads w without issues. When none does, the issues of a
// branch with the same type name are reported, or a missing branch otherwise.
func (c *checker) checkBranch(r, w *avrocheck.Node, path string) {
	r, w = r.Resolve(), w.Resolve()
	if r == nil || r.Kind != avrocheck.KindUnion {
		c.check(r, w, path)
		return
	}
	var closest []Issue
	for _, b := range r.Branches {
		t := c.trial()
		t.check(b, w, path)
		if len(t.issues) == 0 {
			return
		}
		if closest == nil && sameType(b, w) {
			closest = t.issues
		}
	}
	if closest != nil {
		c.issues = append(c.issues, closest...)
		return
	}
	c.addf(path, MissingUnionBranch, "writer type %s matches no branch of the reader union", w.TypeName())
}

func sameType(a, b *avrocheck.Node) bool {
	a, b = a.Resolve(), b.Resolve()
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	if a.IsNamed() {
		return namesMatch(a, b)
	}
	return a.TypeName() == b.TypeName()
}

func (c *checker) checkRecord(r, w *avrocheck.Node, path string) {
	if !namesMatch(r, w) {
		c.addf(path, NameMismatch, "reader record %q does not match writer record %q", r.FullName(), w.FullName())
		return
	}
	for _, rf := range r.Fields {
		fp := rf.Name
		if path != "" {
			fp = path + "." + rf.Name
		}
		wf := matchField(rf, w)
		if wf == nil {
			if !rf.HasDefault {
				c.addf(fp, MissingField, "field %q is missing from the writer and has no default", rf.Name)
			}
			continue
		}
		c.check(rf.Type, wf.Type, fp)
	}
}

// matchField finds the writer field for a reader field: by name, then by the reader
// field's aliases, then by the writer field's aliases.
func matchField(rf *avrocheck.Field, w *avrocheck.Node) *avrocheck.Field {
	if wf := w.Field(rf.Name); wf != nil {
		return wf
	}
	for _, a := range rf.Aliases {
		if wf := w.Field(a); wf != nil {
			return wf
		}
	}
	for _, wf := range w.Fields {
		for _, a := range wf.Aliases {
			if a == rf.Name {
				return wf
			}
		}
	}
	return nil
}

func (c *checker) checkEnum(r, w *avrocheck.Node, path string) {
	if !namesMatch(r, w) {
		c.addf(path, NameMismatch, "reader enum %q does not match writer enum %q", r.FullName(), w.FullName())
		return
	}
	if r.HasDefault {
		return
	}
	have := make(map[string]struct{}, len(r.Symbols))
	for _, s := range r.Symbols {
		have[s] = struct{}{}
	}
	for _, s := range w.Symbols {
		if _, ok := have[s]; !ok {
			c.addf(path, MissingEnumSymbol, "writer symbol %q is not in reader enum %q", s, r.FullName())
		}
	}
}

// namesMatch compares unqualified names, then the reader's aliases against the writer's fullname.
func namesMatch(r, w *avrocheck.Node) bool {
	if r.Name == w.Name {
		return true
	}
	wfn := w.FullName()
	for _, a := range r.Aliases {
		if a == wfn || avrocheck.SimpleName(a) == w.Name {
			return true
		}
	}
	return false
}

// promotions lists, per writer primitive, the reader primitives that can read it.
var promotions = map[avrocheck.Primitive][]avrocheck.Primitive{
	avrocheck.Int:    {avrocheck.Long, avrocheck.Float, avrocheck.Double},
	avrocheck.Long:   {avrocheck.Float, avrocheck.Double},
	avrocheck.Float:  {avrocheck.Double},
	avrocheck.String: {avrocheck.Bytes},
	avrocheck.Bytes:  {avrocheck.String},
}

func promotable(writer, reader avrocheck.Primitive) bool {
	if writer == reader {
		return true
	}
	for _, p := range promotions[writer] {
		if p == reader {
			return true
		}
	}
	return false
}
