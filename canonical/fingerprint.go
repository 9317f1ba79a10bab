package canonical

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/openbindings/avrocheck-go"
)

// rabinEmpty is the CRC-64-AVRO fingerprint of the empty input.
const rabinEmpty uint64 = 0xc15d213aa4d7a795

var rabinTable = func() [256]uint64 {
	var t [256]uint64
	for i := range t {
		fp := uint64(i)
		for j := 0; j < 8; j++ {
			fp = (fp >> 1) ^ (rabinEmpty & -(fp & 1))
		}
		t[i] = fp
	}
	return t
}()

// Rabin returns the CRC-64-AVRO fingerprint of b.
func Rabin(b []byte) uint64 {
	fp := rabinEmpty
	for _, c := range b {
		fp = (fp >> 8) ^ rabinTable[byte(fp)^c]
	}
	return fp
}

// Fingerprint64 returns the CRC-64-AVRO fingerprint of the document's Parsing Canonical Form.
func Fingerprint64(doc *avrocheck.Document) uint64 {
	return Rabin([]byte(ParsingForm(doc)))
}

// SHA256 returns the SHA-256 digest of the document's Parsing Canonical Form.
func SHA256(doc *avrocheck.Document) [32]byte {
	return sha256.Sum256([]byte(ParsingForm(doc)))
}

// FullForm returns the JCS encoding of the whole schema, including docs, defaults,
// aliases and custom attributes that the Parsing Canonical Form drops.
func FullForm(doc *avrocheck.Document) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return Value(json.RawMessage(b))
}
