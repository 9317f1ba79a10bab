package canonical

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestValue_DeterministicAcrossKeyOrder(t *testing.T) {
	a, err := Value(json.RawMessage(`{"b": 1, "a": {"y": 2, "x": 1}, "arr": [{"b": 2, "a": 1}]}`))
	if err != nil {
		t.Fatalf("canonical a: %v", err)
	}
	b, err := Value(json.RawMessage(`{"arr": [{"a": 1, "b": 2}], "a": {"x": 1, "y": 2}, "b": 1}`))
	if err != nil {
		t.Fatalf("canonical b: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical output\nA: %s\nB: %s", a, b)
	}
}

func TestValue_ControlCharEscapes(t *testing.T) {
	out, err := Value(map[string]string{"tab": "\t", "nul": "\x00", "esc": "\x1b"})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	for _, want := range []string{`"tab":"\t"`, `"nul":"\u0000"`, `"esc":"\u001b"`} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestValue_NumberFormatting(t *testing.T) {
	out, err := Value(json.RawMessage(`{"n":1e-6,"m":1e-7,"z":-0,"i":10.0}`))
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if string(out) != `{"i":10,"m":1e-7,"n":0.000001,"z":0}` {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestValue_RejectsTrailingData(t *testing.T) {
	if _, err := Value(json.RawMessage(`{} {}`)); err == nil {
		t.Fatalf("expected trailing data error")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(map[string]any{"a": json.Number("1.0"), "b": []any{"x"}}, map[string]any{"b": []any{"x"}, "a": float64(1)}) {
		t.Fatalf("expected equal values")
	}
	if Equal("1", json.Number("1")) {
		t.Fatalf("string and number must differ")
	}
}
