package avrocheck

import (
	"encoding/json"
	"testing"
)

func TestNode_LosslessRoundTrip_PreservesCustomAttributes(t *testing.T) {
	doc := mustParse(t, `{
  "type": "record",
  "name": "Event",
  "x-owner": "payments",
  "connect.version": 3,
  "fields": [
    {"name": "amount", "type": {"type": "bytes", "logicalType": "decimal", "precision": 9, "scale": 2},
     "x-pii": false}
  ]
}`)

	if len(doc.Root.Props) != 2 {
		t.Fatalf("expected 2 record props, got %#v", doc.Root.Props)
	}
	amount := doc.Root.Field("amount")
	if amount.Type.LogicalType != "decimal" {
		t.Fatalf("expected decimal logical type, got %q", amount.Type.LogicalType)
	}
	if string(amount.Type.Props["precision"]) != "9" {
		t.Fatalf("expected precision prop kept, got %#v", amount.Type.Props)
	}

	out := mustMarshalToMap(t, doc)
	if out["x-owner"] != "payments" {
		t.Fatalf("expected x-owner preserved, got %#v", out["x-owner"])
	}
	if out["connect.version"] != float64(3) {
		t.Fatalf("expected connect.version preserved, got %#v", out["connect.version"])
	}
	fields := out["fields"].([]any)
	f0 := fields[0].(map[string]any)
	if f0["x-pii"] != false {
		t.Fatalf("expected field prop preserved, got %#v", f0)
	}
	typ := f0["type"].(map[string]any)
	if typ["logicalType"] != "decimal" || typ["scale"] != float64(2) {
		t.Fatalf("expected logical type attributes preserved, got %#v", typ)
	}
}

func TestNode_Marshal_TypedAttributesWinOverProps(t *testing.T) {
	n := &Node{
		Kind:   KindFixed,
		Name:   "MD5",
		Size:   16,
		Props:  map[string]json.RawMessage{"size": json.RawMessage(`99`), "x-algo": json.RawMessage(`"md5"`)},
		target: nil,
	}
	out := mustMarshalToMap(t, n)
	if out["size"] != float64(16) {
		t.Fatalf("expected typed size to win, got %#v", out["size"])
	}
	if out["x-algo"] != "md5" {
		t.Fatalf("expected x-algo preserved, got %#v", out["x-algo"])
	}
}

func TestNode_Marshal_ReferencesWrittenAsFullName(t *testing.T) {
	doc := mustParse(t, `{
  "type": "record", "name": "Node", "namespace": "graph",
  "fields": [
    {"name": "children", "type": {"type": "array", "items": "Node"}}
  ]
}`)
	out := mustMarshalToMap(t, doc)
	items := out["fields"].([]any)[0].(map[string]any)["type"].(map[string]any)["items"]
	if items != "graph.Node" {
		t.Fatalf("expected reference written as fullname, got %#v", items)
	}

	again, err := Parse(string(mustMarshal(t, doc)))
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if again.Root.FullName() != "graph.Node" {
		t.Fatalf("unexpected root after round trip: %q", again.Root.FullName())
	}
}

func TestNode_TypeName(t *testing.T) {
	doc := mustParse(t, `["null", "int", {"type":"array","items":"int"}, {"type":"map","values":"int"},
		{"type":"enum","name":"E","namespace":"n","symbols":["A"]}, "n.E"]`)
	want := []string{"null", "int", "array", "map", "n.E", "n.E"}
	for i, b := range doc.Root.Branches {
		if got := b.TypeName(); got != want[i] {
			t.Errorf("branch %d: TypeName() = %q, want %q", i, got, want[i])
		}
	}
}

func TestDocument_NamesSorted(t *testing.T) {
	doc := mustParse(t, `{"type":"record","name":"Z","fields":[
		{"name":"b","type":{"type":"fixed","name":"B","size":2}},
		{"name":"a","type":{"type":"enum","name":"A","symbols":["X"]}}
	]}`)
	names := doc.Names()
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "Z" {
		t.Fatalf("unexpected names %v", names)
	}
	if _, ok := doc.Lookup("B"); !ok {
		t.Fatalf("expected B registered")
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
