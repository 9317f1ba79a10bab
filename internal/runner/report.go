package runner

import (
	"crypto/sha256"
	"fmt"

	"github.com/openbindings/avrocheck-go/canonical"
	"github.com/openbindings/avrocheck-go/lint"
)

// LintFiles prints lint warnings for each file. Warnings never fail the run; it returns
// false only when a file cannot be parsed.
func (r *Runner) LintFiles(paths []string, opts ...lint.Option) bool {
	ok := true
	for _, p := range paths {
		doc, _, err := LoadFile(p)
		if err != nil {
			fmt.Fprintf(r.out, "✗ Schema %s is INVALID: %s\n", p, reason(err))
			ok = false
			continue
		}
		ws := lint.Lint(doc, opts...)
		if len(ws) == 0 {
			fmt.Fprintf(r.out, "✓ %s: no warnings\n", p)
			continue
		}
		fmt.Fprintf(r.out, "%s:\n", p)
		for _, w := range ws {
			fmt.Fprintf(r.out, "  ⚠ %s\n", w)
		}
	}
	return ok
}

// Fingerprint prints the Parsing Canonical Form and fingerprints of each file.
func (r *Runner) Fingerprint(paths []string) bool {
	ok := true
	for _, p := range paths {
		doc, _, err := LoadFile(p)
		if err != nil {
			fmt.Fprintf(r.out, "✗ Schema %s is INVALID: %s\n", p, reason(err))
			ok = false
			continue
		}
		fmt.Fprintf(r.out, "%s\n", p)
		fmt.Fprintf(r.out, "  canonical:  %s\n", canonical.ParsingForm(doc))
		fmt.Fprintf(r.out, "  crc64-avro: %016x\n", canonical.Fingerprint64(doc))
		fmt.Fprintf(r.out, "  sha256:     %x\n", canonical.SHA256(doc))
		full, err := canonical.FullForm(doc)
		if err != nil {
			r.logger.Warnw("cannot encode full schema form", "path", p, "error", err)
			continue
		}
		fmt.Fprintf(r.out, "  full-jcs-sha256: %x\n", sha256.Sum256(full))
	}
	return ok
}
