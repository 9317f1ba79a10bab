// Package lint reports best-practice warnings for Avro schemas. Warnings are advisory and
// never change whether a schema is valid or compatible.
package lint
