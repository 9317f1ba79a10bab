// Package subject handles `<subject>@<version>` tokens used to name versioned schema files,
// e.g. com.example.User@1.2.0.avsc.
package subject

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Token is a parsed `<subject>@<version>` token. Subjects are case-sensitive, like Avro names.
type Token struct {
	Subject string
	Version *semver.Version
}

func (t Token) String() string {
	if t.Subject == "" || t.Version == nil {
		return ""
	}
	return t.Subject + "@" + t.Version.Original()
}

var tokenRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*@[A-Za-z0-9][A-Za-z0-9.\-+]*$`)

// Parse parses a `<subject>@<version>` token. The version is any semantic version
// Masterminds/semver accepts, including the short forms "1" and "v1.2".
func Parse(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Token{}, errors.New("subject token: empty")
	}
	if !tokenRe.MatchString(s) {
		return Token{}, fmt.Errorf("subject token: invalid %q", s)
	}
	at := strings.LastIndexByte(s, '@')
	v, err := semver.NewVersion(s[at+1:])
	if err != nil {
		return Token{}, fmt.Errorf("subject token %q: %w", s, err)
	}
	return Token{Subject: s[:at], Version: v}, nil
}

// IsToken reports whether s is a valid token.
func IsToken(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// FromFilename parses the token in a file name such as dir/User@1.0.0.avsc. ok is false
// when the base name carries no version.
func FromFilename(path, ext string) (tok Token, ok bool, err error) {
	base := strings.TrimSuffix(filepath.Base(path), ext)
	if !strings.Contains(base, "@") {
		return Token{}, false, nil
	}
	tok, err = Parse(base)
	if err != nil {
		return Token{}, false, err
	}
	return tok, true, nil
}

// Entry is one versioned schema file.
type Entry struct {
	Token
	Path string
}

// Group is every version of one subject, oldest first.
type Group struct {
	Subject  string
	Versions []Entry
}

// GroupFiles groups versioned files by subject and sorts each group by semantic version.
// Files without a version are returned in unversioned. Two files with the same subject and
// version are an error.
func GroupFiles(paths []string, ext string) (groups []Group, unversioned []string, err error) {
	bySubject := map[string][]Entry{}
	for _, p := range paths {
		tok, ok, err := FromFilename(p, ext)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			unversioned = append(unversioned, p)
			continue
		}
		for _, e := range bySubject[tok.Subject] {
			if e.Version.Equal(tok.Version) {
				return nil, nil, fmt.Errorf("subject %s: version %s defined by both %s and %s", tok.Subject, tok.Version, e.Path, p)
			}
		}
		bySubject[tok.Subject] = append(bySubject[tok.Subject], Entry{Token: tok, Path: p})
	}

	names := make([]string, 0, len(bySubject))
	for s := range bySubject {
		names = append(names, s)
	}
	sort.Strings(names)
	for _, s := range names {
		entries := bySubject[s]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Version.LessThan(entries[j].Version)
		})
		groups = append(groups, Group{Subject: s, Versions: entries})
	}
	return groups, unversioned, nil
}
