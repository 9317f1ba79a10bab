package compat

import (
	"fmt"

	"github.com/openbindings/avrocheck-go"
	"github.com/openbindings/avrocheck-go/canonical"
)

// DefaultChange is a field present in two schema versions whose default differs.
// Old and New hold the canonical JSON of each default, or "" when there is none.
type DefaultChange struct {
	Path string
	Old  string
	New  string
}

func (c DefaultChange) String() string {
	return fmt.Sprintf("%s: default changed from %s to %s", c.Path, orNone(c.Old), orNone(c.New))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// DefaultChanges lists the fields whose default differs between from and to. Records are
// matched by full name and fields the way Check matches them. The changes do not affect
// the compatibility verdict.
func DefaultChanges(from, to *avrocheck.Document) []DefaultChange {
	var out []DefaultChange
	for _, name := range to.Names() {
		nr, _ := to.Lookup(name)
		old, ok := from.Lookup(name)
		if !ok || nr.Kind != avrocheck.KindRecord || old.Kind != avrocheck.KindRecord {
			continue
		}
		for _, nf := range nr.Fields {
			of := matchField(nf, old)
			if of == nil {
				continue
			}
			if of.HasDefault == nf.HasDefault && (!nf.HasDefault || canonical.Equal(of.Default, nf.Default)) {
				continue
			}
			out = append(out, DefaultChange{
				Path: name + "." + nf.Name,
				Old:  defaultText(of),
				New:  defaultText(nf),
			})
		}
	}
	return out
}

func defaultText(f *avrocheck.Field) string {
	if !f.HasDefault {
		return ""
	}
	return canonical.Key(f.Default)
}
