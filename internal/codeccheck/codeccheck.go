// Package codeccheck cross-checks schema text against the goavro codec.
package codeccheck

import (
	"fmt"

	"github.com/linkedin/goavro/v2"

	"github.com/openbindings/avrocheck-go"
	"github.com/openbindings/avrocheck-go/canonical"
)

// Result is what the codec derived from a schema it accepted.
type Result struct {
	Canonical string
	Rabin     uint64
}

// Check builds a goavro codec from text. An error means the codec rejected the schema.
func Check(text string) (Result, error) {
	codec, err := goavro.NewCodec(text)
	if err != nil {
		return Result{}, fmt.Errorf("codec rejected schema: %w", err)
	}
	return Result{Canonical: codec.CanonicalSchema(), Rabin: codec.Rabin}, nil
}

// MismatchError reports that the codec and the parsed document disagree on the canonical form.
type MismatchError struct {
	Ours   string
	Theirs string
}

func (e *MismatchError) Error() string {
	if e == nil {
		return "canonical form mismatch"
	}
	return fmt.Sprintf("canonical form mismatch: parsed %s, codec %s", e.Ours, e.Theirs)
}

// Compare checks that doc has the canonical form and fingerprint the codec computed.
func Compare(doc *avrocheck.Document, res Result) error {
	ours := canonical.ParsingForm(doc)
	if ours != res.Canonical || canonical.Rabin([]byte(ours)) != res.Rabin {
		return &MismatchError{Ours: ours, Theirs: res.Canonical}
	}
	return nil
}
