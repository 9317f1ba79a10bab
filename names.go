package avrocheck

import (
	"regexp"
	"strings"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s is a valid Avro name: letters, digits and underscore,
// not starting with a digit.
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

func fullName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// splitFullName splits a dotted fullname into namespace and simple name.
func splitFullName(s string) (namespace, name string) {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+1:]
}

// qualify resolves a name written inside namespace ns to a fullname.
func qualify(ns, name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return fullName(ns, name)
}

// SimpleName strips the namespace from a fullname.
func SimpleName(s string) string {
	_, name := splitFullName(s)
	return name
}

func pathOrRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

func joinPath(prefix, next string) string {
	if prefix == "" {
		return next
	}
	if next == "" {
		return prefix
	}
	if strings.HasPrefix(next, "[") || strings.HasPrefix(next, ".") {
		return prefix + next
	}
	return prefix + "." + next
}
