// Package report renders drift check results for the console.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/aviling/pulsecheck/internal/drift"
)

// Console writes human-readable drift reports to a single writer.
type Console struct {
	out io.Writer

	okColor     *color.Color
	driftColor  *color.Color
	addColor    *color.Color
	removeColor *color.Color
	changeColor *color.Color
	failColor   *color.Color
}

// NewConsole creates a Console writing to out. With noColor set, all output
// is plain text.
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:         out,
		okColor:     color.New(color.FgGreen, color.Bold),
		driftColor:  color.New(color.FgYellow, color.Bold),
		addColor:    color.New(color.FgGreen),
		removeColor: color.New(color.FgRed),
		changeColor: color.New(color.FgYellow),
		failColor:   color.New(color.FgRed, color.Bold),
	}
	if noColor {
		for _, col := range []*color.Color{
			c.okColor, c.driftColor, c.addColor, c.removeColor, c.changeColor, c.failColor,
		} {
			col.DisableColor()
		}
	}
	return c
}

// Match reports an endpoint whose live response matches its fixture.
func (c *Console) Match(endpoint string) {
	fmt.Fprintf(c.out, "%s %s: fixture matches live response\n", c.okColor.Sprint("OK"), endpoint)
}

// Drift reports an endpoint with structural differences, one line per change.
func (c *Console) Drift(endpoint string, rep drift.Report) {
	added, removed, changed := rep.Counts()
	fmt.Fprintf(c.out, "%s %s: %d added, %d removed, %d changed\n",
		c.driftColor.Sprint("DRIFT"), endpoint, added, removed, changed)

	for _, change := range rep.Changes {
		var col *color.Color
		switch change.Kind {
		case drift.Added:
			col = c.addColor
		case drift.Removed:
			col = c.removeColor
		default:
			col = c.changeColor
		}
		fmt.Fprintf(c.out, "  %s\n", col.Sprint(change.String()))
	}
}

// Bootstrap reports a fixture created from the live response because no
// baseline existed yet.
func (c *Console) Bootstrap(endpoint, path string) {
	fmt.Fprintf(c.out, "%s %s: no fixture yet, wrote %s\n", c.okColor.Sprint("NEW"), endpoint, path)
}

// Failure reports an endpoint that could not be checked.
func (c *Console) Failure(endpoint string, err error) {
	fmt.Fprintf(c.out, "%s %s: %v\n", c.failColor.Sprint("FAIL"), endpoint, err)
}

// Summary prints the final run totals.
func (c *Console) Summary(checked, matched, drifted, bootstrapped, failed int) {
	fmt.Fprintf(c.out, "\nchecked %d endpoint(s): %d matched, %d drifted, %d bootstrapped, %d failed\n",
		checked, matched, drifted, bootstrapped, failed)
}
