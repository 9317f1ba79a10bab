package compat

import (
	"fmt"
	"strings"
)

// Mode is a compatibility level as used by schema registries.
type Mode string

const (
	Backward           Mode = "BACKWARD"
	BackwardTransitive Mode = "BACKWARD_TRANSITIVE"
	Forward            Mode = "FORWARD"
	ForwardTransitive  Mode = "FORWARD_TRANSITIVE"
	Full               Mode = "FULL"
	FullTransitive     Mode = "FULL_TRANSITIVE"
	None               Mode = "NONE"
)

var modes = []Mode{Backward, BackwardTransitive, Forward, ForwardTransitive, Full, FullTransitive, None}

// Modes returns every known mode.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// ParseMode maps a case-insensitive mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown compatibility mode %q", s)
	}
	return m, nil
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	for _, k := range modes {
		if m == k {
			return true
		}
	}
	return false
}

// Transitive reports whether m checks against every prior version of a history.
func (m Mode) Transitive() bool {
	return strings.HasSuffix(string(m), "_TRANSITIVE")
}

// Base strips the transitive suffix.
func (m Mode) Base() Mode {
	return Mode(strings.TrimSuffix(string(m), "_TRANSITIVE"))
}

func (m Mode) backward() bool {
	b := m.Base()
	return b == Backward || b == Full
}

func (m Mode) forward() bool {
	b := m.Base()
	return b == Forward || b == Full
}
