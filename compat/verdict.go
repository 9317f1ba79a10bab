package compat

import "fmt"

// Outcome is the overall result of a check.
type Outcome string

const (
	Compatible   Outcome = "Compatible"
	Incompatible Outcome = "Incompatible"
)

// IssueKind classifies a compatibility violation.
type IssueKind string

const (
	TypeMismatch       IssueKind = "type_mismatch"
	NameMismatch       IssueKind = "name_mismatch"
	MissingField       IssueKind = "missing_field"
	MissingEnumSymbol  IssueKind = "missing_enum_symbol"
	FixedSizeMismatch  IssueKind = "fixed_size_mismatch"
	MissingUnionBranch IssueKind = "missing_union_branch"
	InvalidMode        IssueKind = "invalid_mode"
)

// Direction names which reading direction produced an issue.
type Direction string

const (
	// DirectionBackward: the reader schema reads data written with the writer schema.
	DirectionBackward Direction = "backward"
	// DirectionForward: the writer schema reads data written with the reader schema.
	DirectionForward Direction = "forward"
)

// Issue is a single violation. Path locates it in the schema doing the reading.
type Issue struct {
	Path      string
	Kind      IssueKind
	Message   string
	Direction Direction
}

func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "<root>"
	}
	if i.Direction == "" {
		return fmt.Sprintf("%s: %s: %s", path, i.Kind, i.Message)
	}
	return fmt.Sprintf("%s: %s (%s): %s", path, i.Kind, i.Direction, i.Message)
}

// Verdict is the result of Check or CheckHistory.
type Verdict struct {
	Mode    Mode
	Outcome Outcome
	Issues  []Issue
}

// Compatible reports whether the outcome is Compatible.
func (v Verdict) Compatible() bool {
	return v.Outcome == Compatible
}

func verdict(mode Mode, issues []Issue) Verdict {
	if len(issues) == 0 {
		return Verdict{Mode: mode, Outcome: Compatible}
	}
	return Verdict{Mode: mode, Outcome: Incompatible, Issues: issues}
}
