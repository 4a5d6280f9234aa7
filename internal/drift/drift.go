// Package drift compares two type signatures and reports structural drift:
// paths added, paths removed, and paths whose type tag changed.
package drift

import (
	"fmt"

	"github.com/aviling/pulsecheck/internal/models"
	"github.com/aviling/pulsecheck/internal/signature"
)

// Kind classifies a single difference record.
type Kind string

const (
	// Added marks a path present in the actual response but not the fixture.
	Added Kind = "added"
	// Removed marks a path present in the fixture but not the actual response.
	Removed Kind = "removed"
	// Changed marks a path whose type tag differs between the two.
	Changed Kind = "changed"
)

// Change is one difference record. Fixture is unset for additions and Actual
// is unset for removals.
type Change struct {
	Kind    Kind
	Path    string
	Fixture models.TypeTag
	Actual  models.TypeTag
}

// String renders the change in the conventional report form.
func (c Change) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("+ %s: %s (new field in API)", c.Path, c.Actual)
	case Removed:
		return fmt.Sprintf("- %s: %s (missing in API response)", c.Path, c.Fixture)
	default:
		return fmt.Sprintf("~ %s: fixture=%s, actual=%s", c.Path, c.Fixture, c.Actual)
	}
}

// Report is the ordered result of comparing two signatures. Additions and
// type changes always precede removals.
type Report struct {
	Changes []Change
}

// Clean reports whether the two signatures are structurally equivalent.
func (r Report) Clean() bool {
	return len(r.Changes) == 0
}

// Counts returns the number of additions, removals, and type changes.
func (r Report) Counts() (added, removed, changed int) {
	for _, c := range r.Changes {
		switch c.Kind {
		case Added:
			added++
		case Removed:
			removed++
		case Changed:
			changed++
		}
	}
	return added, removed, changed
}

// Compare diffs an actual signature against a fixture signature. It runs two
// passes: first over the actual signature, emitting additions and type
// changes; then over the fixture signature, emitting removals. Downstream
// reporting relies on that grouping.
//
// A null tag on either side suppresses type-change reporting, since JSON
// nulls commonly stand in for any optional field.
func Compare(fixture, actual *signature.Signature) Report {
	var changes []Change

	for _, path := range actual.Paths() {
		actualTag, _ := actual.Tag(path)
		fixtureTag, ok := fixture.Tag(path)
		if !ok {
			changes = append(changes, Change{Kind: Added, Path: path, Actual: actualTag})
			continue
		}
		if fixtureTag != actualTag && fixtureTag != models.TagNull && actualTag != models.TagNull {
			changes = append(changes, Change{Kind: Changed, Path: path, Fixture: fixtureTag, Actual: actualTag})
		}
	}

	for _, path := range fixture.Paths() {
		if _, ok := actual.Tag(path); !ok {
			fixtureTag, _ := fixture.Tag(path)
			changes = append(changes, Change{Kind: Removed, Path: path, Fixture: fixtureTag})
		}
	}

	return Report{Changes: changes}
}
