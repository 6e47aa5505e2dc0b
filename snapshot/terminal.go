package snapshot

import (
	"strings"

	"rewind/types"
)

// TerminalLine is a chunk of program output tagged with the source line
// that produced it.
type TerminalLine struct {
	Text     string
	Location types.SourceLocation
}

// MockTerminal captures printf output inside the simulation. Output
// from consecutive prints on the same source line is appended to one
// entry, so a printf loop body accumulates naturally.
type MockTerminal struct {
	Lines []TerminalLine
}

// NewMockTerminal creates an empty terminal
func NewMockTerminal() *MockTerminal {
	return &MockTerminal{}
}

// Print appends text, merging with the previous entry when it came
// from the same source line.
func (t *MockTerminal) Print(text string, loc types.SourceLocation) {
	if n := len(t.Lines); n > 0 && t.Lines[n-1].Location.Line == loc.Line {
		t.Lines[n-1].Text += text
		return
	}
	t.Lines = append(t.Lines, TerminalLine{Text: text, Location: loc})
}

// Output returns the captured output split into display lines. Embedded
// newlines split an entry; a trailing newline does not produce an empty
// final line.
func (t *MockTerminal) Output() []string {
	var out []string
	for _, tl := range t.Lines {
		parts := strings.Split(tl.Text, "\n")
		if len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		out = append(out, parts...)
	}
	return out
}

// Clone returns an independent copy of the terminal
func (t *MockTerminal) Clone() *MockTerminal {
	return &MockTerminal{Lines: append([]TerminalLine(nil), t.Lines...)}
}
