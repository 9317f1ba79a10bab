package avrocheck

import (
	"encoding/json"
	"strings"
	"testing"
)

const userSchema = `{
  "type": "record",
  "name": "User",
  "namespace": "com.example",
  "fields": [
    {"name": "id", "type": "long"},
    {"name": "name", "type": "string"}
  ]
}`

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustMarshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	return m
}

// assertSingleError fails unless res holds exactly one error whose message contains want.
func assertSingleError(t *testing.T, res ValidationResult, want string) {
	t.Helper()
	if res.OK {
		t.Fatalf("expected invalid result containing %q", want)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(res.Errors), res.Errors)
	}
	if !strings.Contains(res.Errors[0].Message, want) {
		t.Fatalf("expected error containing %q, got %q", want, res.Errors[0].Message)
	}
}
