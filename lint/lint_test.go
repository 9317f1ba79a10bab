package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbindings/avrocheck-go"
)

func mustParse(t *testing.T, text string) *avrocheck.Document {
	t.Helper()
	doc, err := avrocheck.Parse(text)
	require.NoError(t, err)
	return doc
}

func messages(ws []Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Message)
	}
	return out
}

func TestNullableDefault(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"User","fields":[
		{"name":"id","type":"long"},
		{"name":"email","type":["null","string"]},
		{"name":"phone","type":["null","string"],"default":null},
		{"name":"address","type":{"type":"record","name":"Address","fields":[
			{"name":"street","type":["null","string"]}]}}]}`)

	ws := NullableDefault{}.Check(doc)
	require.Len(t, ws, 2)
	assert.Equal(t, "Field 'email' is nullable but has no default", ws[0].Message)
	assert.Equal(t, "User.email", ws[0].Path)
	assert.Equal(t, "nullable-default", ws[0].Rule)
	assert.Equal(t, "Field 'street' is nullable but has no default", ws[1].Message)
}

func TestCasingRules(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"user_record","fields":[
		{"name":"userId","type":"long"},
		{"name":"created_at","type":"long"},
		{"name":"BadName","type":"int"},
		{"name":"kind","type":{"type":"enum","name":"Kind","symbols":["A"],"default":"A"}}]}`)

	ws := FieldCasing{}.Check(doc)
	require.Len(t, ws, 1)
	assert.Equal(t, "Field 'BadName' should be lowerCamelCase or snake_case", ws[0].Message)

	ws = TypeCasing{}.Check(doc)
	require.Len(t, ws, 1)
	assert.Equal(t, "Type 'user_record' should be PascalCase", ws[0].Message)
}

func TestNullFirst(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"R","fields":[
		{"name":"a","type":["string","null"],"default":"x"},
		{"name":"b","type":["null","string"],"default":null},
		{"name":"c","type":{"type":"array","items":["int","null"]}}]}`)
	ws := NullFirst{}.Check(doc)
	require.Len(t, ws, 2)
	assert.Equal(t, "R.a", ws[0].Path)
	assert.Equal(t, "R.c[]", ws[1].Path)
}

func TestEnumDefault(t *testing.T) {
	doc := mustParse(t, `["null",
		{"type":"enum","name":"Color","symbols":["RED","GREEN"]},
		{"type":"enum","name":"Size","symbols":["S","M"],"default":"M"}]`)
	ws := EnumDefault{}.Check(doc)
	require.Len(t, ws, 1)
	assert.Equal(t, "Enum 'Color' has no default symbol", ws[0].Message)
}

func TestLogicalTypes(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		want   []string
	}{
		{"date on int", `{"type":"int","logicalType":"date"}`, nil},
		{"timestamp on long", `{"type":"long","logicalType":"timestamp-millis"}`, nil},
		{"uuid on string", `{"type":"string","logicalType":"uuid"}`, nil},
		{"decimal on bytes", `{"type":"bytes","logicalType":"decimal","precision":10,"scale":2}`, nil},
		{"decimal on fixed", `{"type":"fixed","name":"Money","size":8,"logicalType":"decimal","precision":18}`, nil},
		{"duration", `{"type":"fixed","name":"D","size":12,"logicalType":"duration"}`, nil},
		{"date on string", `{"type":"string","logicalType":"date"}`,
			[]string{"Logical type 'date' must annotate int, not string"}},
		{"timestamp on int", `{"type":"int","logicalType":"timestamp-micros"}`,
			[]string{"Logical type 'timestamp-micros' must annotate long, not int"}},
		{"decimal without precision", `{"type":"bytes","logicalType":"decimal"}`,
			[]string{"Logical type 'decimal' requires a positive integer precision"}},
		{"decimal scale above precision", `{"type":"bytes","logicalType":"decimal","precision":2,"scale":3}`,
			[]string{"Logical type 'decimal' has scale 3 greater than precision 2"}},
		{"decimal precision too large for fixed", `{"type":"fixed","name":"Small","size":2,"logicalType":"decimal","precision":5}`,
			[]string{"Logical type 'decimal' precision 5 does not fit in fixed of size 2"}},
		{"duration wrong size", `{"type":"fixed","name":"D","size":8,"logicalType":"duration"}`,
			[]string{"Logical type 'duration' requires a fixed of size 12"}},
		{"unknown", `{"type":"string","logicalType":"color"}`,
			[]string{"Unknown logical type 'color'"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := LogicalTypes{}.Check(mustParse(t, tt.schema))
			if tt.want == nil {
				assert.Empty(t, ws)
				return
			}
			assert.Equal(t, tt.want, messages(ws))
		})
	}
}

type noDocRule struct{}

func (noDocRule) Name() string { return "no-doc" }

func (r noDocRule) Check(doc *avrocheck.Document) []Warning {
	if doc.Root.Doc == "" {
		return []Warning{{Rule: r.Name(), Message: "schema has no doc"}}
	}
	return nil
}

func TestLint_Options(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"R","fields":[
		{"name":"e","type":["null",{"type":"enum","name":"E","symbols":["A"]}]}]}`)

	ws := Lint(doc)
	assert.Equal(t, []string{
		"Field 'e' is nullable but has no default",
		"Enum 'E' has no default symbol",
	}, messages(ws))

	ws = Lint(doc, WithDisabled("enum-default"))
	assert.Equal(t, []string{"Field 'e' is nullable but has no default"}, messages(ws))

	ws = Lint(doc, WithDisabled("nullable-default", "enum-default"), WithRules(noDocRule{}))
	require.Len(t, ws, 1)
	assert.Equal(t, "[no-doc] schema has no doc", ws[0].String())

	assert.Empty(t, Run(doc))
	assert.Nil(t, Lint(nil))
}

func TestLint_DoesNotAffectValidity(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"bad_name","fields":[{"name":"X","type":["int","null"]}]}`)
	assert.NotEmpty(t, Lint(doc))
	assert.True(t, avrocheck.Validate(doc).OK)
}

func TestDefaults_Names(t *testing.T) {
	var names []string
	for _, r := range Defaults() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"nullable-default", "field-casing", "type-casing", "null-first", "logical-type", "enum-default"}, names)
}
