// Package canonical produces deterministic representations of schemas and JSON values.
//
// ParsingForm implements the Avro Parsing Canonical Form: the schema stripped to the
// attributes that affect how data is read, with fullnames, a fixed attribute order and no
// whitespace. Two schemas with the same Parsing Canonical Form read and write data
// identically. Fingerprint64 (CRC-64-AVRO, the Rabin fingerprint of the Avro
// specification) and SHA256 hash that form.
//
// Value serializes arbitrary JSON values per RFC 8785 (JCS), so values compare equal
// independent of key order or number spelling. FullForm applies it to a whole schema,
// docs and custom attributes included.
package canonical
