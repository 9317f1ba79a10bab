package avrocheck

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidate_ValidRecord(t *testing.T) {
	res := Validate(mustParse(t, userSchema))
	if !res.OK || len(res.Errors) != 0 {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if res.Err() != nil {
		t.Fatalf("expected nil Err, got %v", res.Err())
	}
}

func TestValidate_ValidRecordsWithoutDuplicateFields(t *testing.T) {
	schemas := []string{
		`{"type":"record","name":"A","fields":[{"name":"a","type":"int"}]}`,
		`{"type":"record","name":"B","fields":[
			{"name":"tags","type":{"type":"array","items":"string"},"default":[]},
			{"name":"attrs","type":{"type":"map","values":"long"},"default":{"x":1}},
			{"name":"kind","type":{"type":"enum","name":"Kind","symbols":["A","B"]},"default":"B"},
			{"name":"hash","type":{"type":"fixed","name":"H","size":2},"default":"ÿ\u0000"},
			{"name":"opt","type":["null","Kind"],"default":null},
			{"name":"ratio","type":"double","default":0.5},
			{"name":"flag","type":"boolean","default":false},
			{"name":"raw","type":"bytes","default":"é"}
		]}`,
		`{"type":"record","name":"C","fields":[
			{"name":"inner","type":{"type":"record","name":"D","fields":[
				{"name":"x","type":"int"},
				{"name":"y","type":"string","default":"y"}
			]},"default":{"x":1}}
		]}`,
	}
	for _, s := range schemas {
		if res := Validate(mustParse(t, s)); !res.OK {
			t.Errorf("expected valid, got %v", res.Errors)
		}
	}
}

func TestValidate_EmptyRecord(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"Empty","fields":[]}`)
	assertSingleError(t, Validate(doc), "must have at least one field")
	if res := Validate(doc, WithAllowEmptyRecords()); !res.OK {
		t.Fatalf("expected empty record allowed, got %v", res.Errors)
	}
}

func TestValidate_FieldNames(t *testing.T) {
	tests := []struct {
		name  string
		field string
		ok    bool
	}{
		{"letters", "userName", true},
		{"underscore start", "_private", true},
		{"digits inside", "line2", true},
		{"digit start", "2fa", false},
		{"dash", "user-name", false},
		{"space", "user name", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `{"type":"record","name":"R","fields":[{"name":"`+tt.field+`","type":"int"}]}`)
			res := Validate(doc)
			if res.OK != tt.ok {
				t.Fatalf("field %q: OK = %v, want %v (%v)", tt.field, res.OK, tt.ok, res.Errors)
			}
		})
	}
}

func TestValidate_DuplicateFieldName(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"R","fields":[
		{"name":"a","type":"int"},{"name":"a","type":"long"}]}`)
	assertSingleError(t, Validate(doc), `duplicate field name "a"`)
}

func TestValidate_DefaultShapes(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		def      string
		wantPart string
	}{
		{"string for int", `"int"`, `"1"`, "expected integer for int"},
		{"fraction for long", `"long"`, `1.5`, "expected integer for long"},
		{"decimal point for int", `"int"`, `1.0`, "expected integer for int"},
		{"exponent for int", `"int"`, `1e2`, "expected integer for int"},
		{"exponent for long", `"long"`, `2.0e0`, "expected integer for long"},
		{"upper exponent for long", `"long"`, `3E1`, "expected integer for long"},
		{"int overflow", `"int"`, `2147483648`, "out of range for int"},
		{"number for string", `"string"`, `1`, "expected string"},
		{"null for boolean", `"boolean"`, `null`, "expected boolean"},
		{"object for array", `{"type":"array","items":"int"}`, `{}`, "expected array"},
		{"bad array item", `{"type":"array","items":"int"}`, `[1,"x"]`, "default[1]"},
		{"unknown symbol", `{"type":"enum","name":"E","symbols":["A"]}`, `"B"`, `"B" is not a symbol`},
		{"fixed length", `{"type":"fixed","name":"F","size":4}`, `"ab"`, "needs 4 bytes"},
		{"union not first branch", `["null","string"]`, `"x"`, "must match the first branch (null)"},
		{"union string first", `["string","null"]`, `null`, "must match the first branch (string)"},
		{"record missing required", `{"type":"record","name":"In","fields":[{"name":"x","type":"int"}]}`, `{}`, `missing value for field "x"`},
		{"nested record value", `{"type":"record","name":"In","fields":[{"name":"x","type":"int"}]}`, `{"x":"no"}`, "default.x"},
		{"bytes code point", `"bytes"`, `"Ā"`, "above U+00FF"},
		{"map values", `{"type":"map","values":"boolean"}`, `{"k":1}`, `default["k"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `{"type":"record","name":"R","fields":[{"name":"f","type":`+tt.typ+`,"default":`+tt.def+`}]}`)
			assertSingleError(t, Validate(doc), tt.wantPart)
		})
	}
}

func TestValidate_UnionDefaultAnyBranchOption(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"R","fields":[{"name":"f","type":["null","string"],"default":"x"}]}`)
	if Validate(doc).OK {
		t.Fatalf("expected first-branch rule to reject the default")
	}
	if res := Validate(doc, WithUnionDefaultAnyBranch()); !res.OK {
		t.Fatalf("expected any-branch rule to accept, got %v", res.Errors)
	}
	bad := mustParse(t, `{"type":"record","name":"R","fields":[{"name":"f","type":["null","string"],"default":1}]}`)
	assertSingleError(t, Validate(bad, WithUnionDefaultAnyBranch()), "matches no branch")
}

func TestValidate_Enum(t *testing.T) {
	assertSingleError(t, Validate(mustParse(t, `{"type":"enum","name":"E","symbols":[]}`)), "at least one symbol")
	assertSingleError(t, Validate(mustParse(t, `{"type":"enum","name":"E","symbols":["A","A"]}`)), `duplicate symbol "A"`)
	assertSingleError(t, Validate(mustParse(t, `{"type":"enum","name":"E","symbols":["A","1B"]}`)), `symbol "1B"`)
	assertSingleError(t, Validate(mustParse(t, `{"type":"enum","name":"E","symbols":["A"],"default":"Z"}`)), `default "Z" is not one of its symbols`)
}

func TestValidate_FixedSize(t *testing.T) {
	for _, s := range []string{
		`{"type":"fixed","name":"F"}`,
		`{"type":"fixed","name":"F","size":0}`,
		`{"type":"fixed","name":"F","size":-3}`,
		`{"type":"fixed","name":"F","size":"8"}`,
	} {
		assertSingleError(t, Validate(mustParse(t, s)), "size must be a positive integer")
	}
}

func TestValidate_UnionRules(t *testing.T) {
	assertSingleError(t, Validate(mustParse(t, `["int","string","int"]`)), "duplicates branch 0")
	assertSingleError(t, Validate(mustParse(t, `["null","int","null"]`)), "at most one null")
	assertSingleError(t, Validate(mustParse(t, `["int",["string"]]`)), "must not directly contain another union")
	assertSingleError(t, Validate(mustParse(t, `[{"type":"array","items":"int"},{"type":"array","items":"string"}]`)), `type "array"`)
	assertSingleError(t, Validate(mustParse(t, `[]`)), "at least one branch")
	if res := Validate(mustParse(t, `["string","null"]`)); !res.OK {
		t.Fatalf("null in a later position is only a convention, got %v", res.Errors)
	}
}

func TestValidate_Names(t *testing.T) {
	assertSingleError(t, Validate(mustParse(t, `{"type":"fixed","name":"1F","size":1}`)), `type name "1F"`)
	assertSingleError(t, Validate(mustParse(t, `{"type":"fixed","name":"F","namespace":"a.-b","size":1}`)), "namespace")
	assertSingleError(t, Validate(mustParse(t, `{"type":"fixed","name":"int","size":1}`)), "redefines a primitive")
	assertSingleError(t, Validate(mustParse(t, `{"type":"fixed","name":"F","aliases":["9x"],"size":1}`)), `alias "9x"`)
}

func TestValidate_FieldAliasesAndOrder(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"R","fields":[
		{"name":"a","type":"int","aliases":["b"]},
		{"name":"b","type":"int","order":"sideways"}]}`)
	res := Validate(doc)
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0].Message, `alias "b" conflicts`) {
		t.Errorf("unexpected first error %q", res.Errors[0].Message)
	}
	if !strings.Contains(res.Errors[1].Message, "order must be") {
		t.Errorf("unexpected second error %q", res.Errors[1].Message)
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"R","fields":[
		{"name":"1a","type":"int"},
		{"name":"e","type":{"type":"enum","name":"E","symbols":[]}},
		{"name":"f","type":{"type":"fixed","name":"F","size":0}},
		{"name":"s","type":"string","default":5}
	]}`)
	res := Validate(doc)
	if len(res.Errors) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	wantPaths := []string{"R.1a", "R.e", "R.f", "R.s"}
	for i, p := range wantPaths {
		if res.Errors[i].Path != p {
			t.Errorf("error %d: path %q, want %q", i, res.Errors[i].Path, p)
		}
	}

	var ise *InvalidSchemaError
	if err := res.Err(); !errors.As(err, &ise) || len(ise.Problems) != 4 {
		t.Fatalf("expected InvalidSchemaError with 4 problems, got %v", err)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	text := `{"type":"record","name":"R","fields":[{"name":"a","type":["string","null"],"default":null},{"name":"a","type":"int"}]}`
	first := Validate(mustParse(t, text))
	second := Validate(mustParse(t, text))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestValidate_RecursiveTypeTerminates(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"Tree","fields":[
		{"name":"children","type":{"type":"array","items":"Tree"},"default":[]},
		{"name":"parent","type":["null","Tree"],"default":null}]}`)
	if res := Validate(doc); !res.OK {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
}

func TestValidate_NilDocument(t *testing.T) {
	res := Validate(nil)
	if res.OK || len(res.Errors) != 1 {
		t.Fatalf("expected single error for nil document, got %v", res)
	}
}
