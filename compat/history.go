package compat

import (
	"fmt"

	"github.com/openbindings/avrocheck-go"
)

// CheckHistory checks candidate as the newest version against history, ordered oldest
// first. Transitive modes check every prior version, other modes only the latest. Issue
// paths are prefixed with the index of the version they were found against.
func CheckHistory(candidate *avrocheck.Document, history []*avrocheck.Document, mode Mode) Verdict {
	if !mode.Valid() {
		return Check(candidate, nil, mode)
	}
	if len(history) == 0 || mode.Base() == None {
		return verdict(mode, nil)
	}
	from := len(history) - 1
	if mode.Transitive() {
		from = 0
	}
	var issues []Issue
	for i := from; i < len(history); i++ {
		v := Check(candidate, history[i], mode.Base())
		for _, is := range v.Issues {
			is.Path = historyPath(i, is.Path)
			issues = append(issues, is)
		}
	}
	return verdict(mode, issues)
}

func historyPath(i int, path string) string {
	if path == "" {
		return fmt.Sprintf("history[%d]", i)
	}
	return fmt.Sprintf("history[%d].%s", i, path)
}
