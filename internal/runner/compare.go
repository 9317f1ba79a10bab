package runner

import (
	"context"
	"fmt"

	"github.com/openbindings/avrocheck-go"
	"github.com/openbindings/avrocheck-go/compat"
	"github.com/openbindings/avrocheck-go/subject"
)

// ComparePair checks a reader schema file against a writer schema file and prints the verdict.
func (r *Runner) ComparePair(readerPath, writerPath string, mode compat.Mode) (bool, error) {
	reader, err := r.loadValid(readerPath)
	if err != nil {
		return false, err
	}
	writer, err := r.loadValid(writerPath)
	if err != nil {
		return false, err
	}
	v := compat.Check(reader, writer, mode)
	r.logger.Debugw("compatibility checked", "reader", readerPath, "writer", writerPath, "mode", mode, "issues", len(v.Issues))
	if v.Compatible() {
		fmt.Fprintf(r.out, "✓ %s can be used with %s under %s\n", readerPath, writerPath, mode)
	} else {
		fmt.Fprintf(r.out, "✗ %s is INCOMPATIBLE with %s under %s\n", readerPath, writerPath, mode)
		r.printIssues(v.Issues)
	}
	r.printDefaultChanges(compat.DefaultChanges(writer, reader))
	return v.Compatible(), nil
}

func (r *Runner) loadValid(path string) (*avrocheck.Document, error) {
	doc, _, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", path, reason(err))
	}
	if vr := avrocheck.Validate(doc, r.opts.ValidateOptions...); !vr.OK {
		return nil, fmt.Errorf("%s: %w", path, vr.Err())
	}
	return doc, nil
}

func (r *Runner) printIssues(issues []compat.Issue) {
	for _, is := range issues {
		fmt.Fprintf(r.out, "    - %s\n", is)
	}
}

func (r *Runner) printDefaultChanges(changes []compat.DefaultChange) {
	for _, c := range changes {
		fmt.Fprintf(r.out, "  ℹ %s\n", c)
	}
}

// History groups the `<subject>@<version>` files of dir and checks each version against
// the earlier ones under mode. Unversioned files are skipped.
func (r *Runner) History(ctx context.Context, dir string, mode compat.Mode) (bool, error) {
	paths, err := r.Discover(dir)
	if err != nil {
		return false, err
	}
	groups, unversioned, err := subject.GroupFiles(paths, r.opts.Extension)
	if err != nil {
		return false, err
	}
	for _, p := range unversioned {
		r.logger.Debugw("skipping unversioned schema", "path", p)
	}
	if len(groups) == 0 {
		fmt.Fprintf(r.out, "No versioned %s files found in %s\n", r.opts.Extension, dir)
		return true, nil
	}

	fmt.Fprintf(r.out, "Checking %s history in %s...\n", mode, dir)
	fmt.Fprintln(r.out, rule)
	allOK := true
	for _, g := range groups {
		ok, err := r.checkGroup(ctx, g, mode)
		if err != nil {
			return false, err
		}
		allOK = allOK && ok
	}
	fmt.Fprintln(r.out, rule)
	if allOK {
		fmt.Fprintln(r.out, "All schema versions are compatible!")
	} else {
		fmt.Fprintln(r.out, "Some schema versions are incompatible!")
	}
	return allOK, nil
}

func (r *Runner) checkGroup(ctx context.Context, g subject.Group, mode compat.Mode) (bool, error) {
	paths := make([]string, len(g.Versions))
	for i, e := range g.Versions {
		paths[i] = e.Path
	}
	results, err := r.CheckFiles(ctx, paths)
	if err != nil {
		return false, err
	}
	docs := make([]*avrocheck.Document, len(results))
	for i, res := range results {
		if !res.Valid() {
			fmt.Fprintf(r.out, "✗ Schema %s is INVALID: %s\n", res.Path, res.Reason())
			return false, nil
		}
		docs[i] = res.Doc
	}

	ok := true
	for i := 1; i < len(docs); i++ {
		v := compat.CheckHistory(docs[i], docs[:i], mode)
		if v.Compatible() {
			fmt.Fprintf(r.out, "✓ %s is %s compatible\n", g.Versions[i].Token, mode)
		} else {
			ok = false
			fmt.Fprintf(r.out, "✗ %s is not %s compatible\n", g.Versions[i].Token, mode)
			r.printIssues(v.Issues)
		}
		r.printDefaultChanges(compat.DefaultChanges(docs[i-1], docs[i]))
	}
	if len(docs) == 1 {
		fmt.Fprintf(r.out, "✓ %s has a single version\n", g.Versions[0].Token)
	}
	return ok, nil
}
