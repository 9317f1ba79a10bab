// Package compat decides whether data written with one Avro schema can be read with another.
//
// The core relation is canRead(reader, writer). A Mode picks the direction: BACKWARD asks
// whether the new schema reads data written with the old one, FORWARD the reverse, and FULL
// both. Every violation is collected into the returned Verdict; checks never fail.
package compat
