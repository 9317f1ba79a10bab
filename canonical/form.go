package canonical

import (
	"bytes"
	"strconv"

	"github.com/openbindings/avrocheck-go"
)

// ParsingForm returns the Avro Parsing Canonical Form of the document's root schema.
func ParsingForm(doc *avrocheck.Document) string {
	if doc == nil {
		return ""
	}
	return NodeForm(doc.Root)
}

// NodeForm returns the Parsing Canonical Form of a single node. Named types met for the
// first time are written in full; later occurrences are written as their fullname.
func NodeForm(n *avrocheck.Node) string {
	var buf bytes.Buffer
	w := formWriter{buf: &buf, seen: map[string]bool{}}
	w.write(n)
	return buf.String()
}

type formWriter struct {
	buf  *bytes.Buffer
	seen map[string]bool
}

func (w *formWriter) write(n *avrocheck.Node) {
	if n == nil {
		w.buf.WriteString("null")
		return
	}
	if n.Kind == avrocheck.KindReference {
		def := n.Resolve()
		if def != n && !w.seen[def.FullName()] {
			w.write(def)
			return
		}
		writeString(w.buf, n.FullName())
		return
	}

	switch n.Kind {
	case avrocheck.KindPrimitive:
		writeString(w.buf, string(n.Primitive))
	case avrocheck.KindUnion:
		w.buf.WriteByte('[')
		for i, b := range n.Branches {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.write(b)
		}
		w.buf.WriteByte(']')
	case avrocheck.KindArray:
		w.buf.WriteString(`{"type":"array","items":`)
		w.write(n.Items)
		w.buf.WriteByte('}')
	case avrocheck.KindMap:
		w.buf.WriteString(`{"type":"map","values":`)
		w.write(n.Values)
		w.buf.WriteByte('}')
	case avrocheck.KindRecord, avrocheck.KindEnum, avrocheck.KindFixed:
		fn := n.FullName()
		if w.seen[fn] {
			writeString(w.buf, fn)
			return
		}
		w.seen[fn] = true
		w.buf.WriteString(`{"name":`)
		writeString(w.buf, fn)
		w.buf.WriteString(`,"type":`)
		writeString(w.buf, string(n.Kind))
		switch n.Kind {
		case avrocheck.KindRecord:
			w.buf.WriteString(`,"fields":[`)
			for i, f := range n.Fields {
				if i > 0 {
					w.buf.WriteByte(',')
				}
				w.buf.WriteString(`{"name":`)
				writeString(w.buf, f.Name)
				w.buf.WriteString(`,"type":`)
				w.write(f.Type)
				w.buf.WriteByte('}')
			}
			w.buf.WriteByte(']')
		case avrocheck.KindEnum:
			w.buf.WriteString(`,"symbols":[`)
			for i, s := range n.Symbols {
				if i > 0 {
					w.buf.WriteByte(',')
				}
				writeString(w.buf, s)
			}
			w.buf.WriteByte(']')
		case avrocheck.KindFixed:
			w.buf.WriteString(`,"size":`)
			w.buf.WriteString(strconv.Itoa(n.Size))
		}
		w.buf.WriteByte('}')
	}
}
