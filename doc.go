// Package avrocheck parses and validates Avro schema definitions without depending on an
// Avro codec.
//
// The package is the schema model and structural validator of a small schema-evolution
// toolkit. It does no file or network IO and never logs; callers supply schema text.
//
// # Quick Start
//
//	doc, err := avrocheck.Parse(text)
//	if err != nil {
//	    log.Fatal(err) // *ParseError, *DuplicateTypeError or *UnresolvedReferenceError
//	}
//
//	res := avrocheck.Validate(doc)
//	if !res.OK {
//	    for _, e := range res.Errors {
//	        fmt.Println(e.Path, e.Message)
//	    }
//	}
//
// # Model
//
// A parsed schema is a Document: a root Node plus a registry of the named types
// (record, enum, fixed) it declares, keyed by fullname. Each named type is defined once
// in the tree; every other use is a KindReference node linked to the definition during
// the second parse pass, so forward and recursive references are allowed and walks over
// the tree terminate.
//
// Attributes the model does not interpret (custom properties, "x-" annotations) are kept
// in Node.Props and Field.Props and written back by MarshalJSON.
//
// # Errors
//
// Parse fails on the first problem that prevents building the tree. Validate never fails:
// it collects every rule violation into a ValidationResult so that all problems in a
// document are reported in one pass.
//
// # Concurrency
//
// A Document is not modified after Parse returns. Validate and the functions of the
// subpackages only read it and are safe for concurrent use on the same Document.
//
// # Subpackages
//
//   - canonical: canonical JSON values, Parsing Canonical Form and fingerprints
//   - compat: reader/writer compatibility under BACKWARD, FORWARD and FULL modes
//   - lint: advisory best-practice warnings that never affect validity
//   - subject: <subject>@<version> tokens for versioned schema files
package avrocheck
