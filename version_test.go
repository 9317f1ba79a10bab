package avrocheck

import "testing"

func TestSupportedRange(t *testing.T) {
	min, max := SupportedRange()
	if min == "" || max == "" {
		t.Fatal("range bounds should not be empty")
	}
	for _, v := range []string{min, max} {
		ok, err := IsSupportedSpecVersion(v)
		if err != nil || !ok {
			t.Errorf("bound %q should be supported, got ok=%v err=%v", v, ok, err)
		}
	}
}

func TestIsSupportedSpecVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    bool
		wantErr bool
	}{
		{name: "oldest", version: "1.8.0", want: true},
		{name: "middle", version: "1.11.3", want: true},
		{name: "newest", version: "1.12.0", want: true},
		{name: "too old", version: "1.7.7", want: false},
		{name: "too new", version: "2.0.0", want: false},
		{name: "whitespace", version: " 1.10.2 ", want: true},
		{name: "empty", version: "", wantErr: true},
		{name: "two parts", version: "1.11", wantErr: true},
		{name: "letters", version: "a.b.c", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsSupportedSpecVersion(tt.version)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IsSupportedSpecVersion(%q) error = %v, wantErr %v", tt.version, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("IsSupportedSpecVersion(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestOptionsForSpecVersion(t *testing.T) {
	schema := `{"type":"record","name":"R","fields":[
		{"name":"u","type":["null","string"],"default":"x"}
	]}`
	doc, err := Parse(schema)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	opts, err := OptionsForSpecVersion("1.11.1")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if res := Validate(doc, opts...); res.OK {
		t.Fatalf("1.11 rules should require the default to match the first branch")
	}

	opts, err = OptionsForSpecVersion("1.12.0")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if res := Validate(doc, opts...); !res.OK {
		t.Fatalf("1.12 rules should accept a default matching any branch, got %v", res.Errors)
	}

	if opts, err := OptionsForSpecVersion(""); err != nil || opts != nil {
		t.Fatalf("empty version should select defaults, got %v, %v", opts, err)
	}
	if _, err := OptionsForSpecVersion("3.0.0"); err == nil {
		t.Fatalf("expected error for unsupported version")
	}
}
