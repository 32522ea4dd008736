package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"ponte/internal/domain"
	"ponte/internal/ports"
)

var (
	thinkingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	toolStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// ConsoleSink renders the segmented event stream to a terminal. Text updates
// for a segment are cumulative, so only the unseen suffix is printed; this
// turns the replace-in-place contract into ordinary streaming output.
type ConsoleSink struct {
	out io.Writer

	printedLen    int  // bytes of the current segment already written
	thinkingShown bool // one marker per thinking stretch
}

// Verify interface compliance at compile time
var _ ports.DeliverySink = (*ConsoleSink)(nil)

// NewConsoleSink creates a sink writing to out
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

// Deliver implements ports.DeliverySink
func (c *ConsoleSink) Deliver(kind domain.EmitKind, content string, segmentID int) error {
	switch kind {
	case domain.EmitThinking:
		if !c.thinkingShown {
			fmt.Fprintln(c.out, thinkingStyle.Render("✦ thinking…"))
			c.thinkingShown = true
		}
	case domain.EmitText:
		c.thinkingShown = false
		if len(content) > c.printedLen {
			fmt.Fprint(c.out, content[c.printedLen:])
			c.printedLen = len(content)
		}
	case domain.EmitSegmentEnd:
		c.thinkingShown = false
		if len(content) > c.printedLen {
			fmt.Fprint(c.out, content[c.printedLen:])
		}
		fmt.Fprintln(c.out)
		c.printedLen = 0
	case domain.EmitTool:
		c.thinkingShown = false
		fmt.Fprintln(c.out, toolStyle.Render("⚒ "+content))
	case domain.EmitDone:
		fmt.Fprintln(c.out, ruleStyle.Render("────"))
		c.printedLen = 0
		c.thinkingShown = false
	}
	return nil
}
