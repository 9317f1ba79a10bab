package lint

import (
	"encoding/json"
	"fmt"

	"github.com/openbindings/avrocheck-go"
)

// logicalBases lists the underlying types each logical type annotates. Fixed-based
// logical types are checked separately.
var logicalBases = map[string][]avrocheck.Primitive{
	"decimal":                {avrocheck.Bytes},
	"uuid":                   {avrocheck.String},
	"date":                   {avrocheck.Int},
	"time-millis":            {avrocheck.Int},
	"time-micros":            {avrocheck.Long},
	"timestamp-millis":       {avrocheck.Long},
	"timestamp-micros":       {avrocheck.Long},
	"timestamp-nanos":        {avrocheck.Long},
	"local-timestamp-millis": {avrocheck.Long},
	"local-timestamp-micros": {avrocheck.Long},
	"local-timestamp-nanos":  {avrocheck.Long},
}

// LogicalTypes warns about logical type annotations that do not fit their underlying
// type. Readers ignore such annotations and fall back to the underlying type.
type LogicalTypes struct{}

func (LogicalTypes) Name() string { return "logical-type" }

func (r LogicalTypes) Check(doc *avrocheck.Document) []Warning {
	var out []Warning
	warn := func(path, format string, args ...any) {
		out = append(out, Warning{Rule: r.Name(), Path: path, Message: fmt.Sprintf(format, args...)})
	}
	visit(doc, func(n *avrocheck.Node, path string) {
		lt := n.LogicalType
		if lt == "" {
			return
		}
		switch {
		case lt == "duration":
			if n.Kind != avrocheck.KindFixed || n.Size != 12 {
				warn(path, "Logical type 'duration' requires a fixed of size 12")
			}
			return
		case lt == "decimal" && n.Kind == avrocheck.KindFixed:
			checkDecimal(n, path, warn)
			return
		case lt == "uuid" && n.Kind == avrocheck.KindFixed:
			if n.Size != 16 {
				warn(path, "Logical type 'uuid' on a fixed requires size 16")
			}
			return
		}
		bases, known := logicalBases[lt]
		if !known {
			warn(path, "Unknown logical type '%s'", lt)
			return
		}
		for _, b := range bases {
			if n.Kind == avrocheck.KindPrimitive && n.Primitive == b {
				if lt == "decimal" {
					checkDecimal(n, path, warn)
				}
				return
			}
		}
		warn(path, "Logical type '%s' must annotate %s, not %s", lt, bases[0], n.TypeName())
	})
	return out
}

func checkDecimal(n *avrocheck.Node, path string, warn func(path, format string, args ...any)) {
	precision, ok := intProp(n.Props, "precision")
	if !ok || precision < 1 {
		warn(path, "Logical type 'decimal' requires a positive integer precision")
		return
	}
	scale := 0
	if _, present := n.Props["scale"]; present {
		scale, ok = intProp(n.Props, "scale")
		if !ok || scale < 0 {
			warn(path, "Logical type 'decimal' requires a non-negative integer scale")
			return
		}
	}
	if scale > precision {
		warn(path, "Logical type 'decimal' has scale %d greater than precision %d", scale, precision)
	}
	if n.Kind == avrocheck.KindFixed && n.Size > 0 && precision > maxDecimalDigits(n.Size) {
		warn(path, "Logical type 'decimal' precision %d does not fit in fixed of size %d", precision, n.Size)
	}
}

func intProp(props map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := props[key]
	if !ok {
		return 0, false
	}
	var i int
	if err := json.Unmarshal(raw, &i); err != nil {
		return 0, false
	}
	return i, true
}

// maxDecimalDigits is floor(log10(2^(8*size-1) - 1)), the number of base-10 digits a
// signed two's-complement value of size bytes can always hold.
func maxDecimalDigits(size int) int {
	bits := 8*size - 1
	// log10(2) ~= 0.30103
	return int(float64(bits) * 0.30102999566398119521)
}
