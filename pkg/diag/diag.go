// Package diag carries source locations and human-facing diagnostic notes
// for the constant evaluator. The value core only emits notes; rendering
// policy lives with whichever reporter the host compiler installs.
package diag

import (
	"fmt"
	"io"
	"sort"
)

// SourceLocation captures a source span. The zero value means "no location".
type SourceLocation struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// IsValid reports whether the location points at real source.
func (l SourceLocation) IsValid() bool {
	return l.Line > 0
}

func (l SourceLocation) String() string {
	if !l.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Note is a single diagnostic note attached to a best-effort location.
type Note struct {
	Location SourceLocation
	Message  string
}

// Reporter receives diagnostic notes.
type Reporter interface {
	Note(loc SourceLocation, format string, args ...any)
}

// Bag is a Reporter that collects notes for later rendering.
type Bag struct {
	Notes []Note
}

func (b *Bag) Note(loc SourceLocation, format string, args ...any) {
	b.Notes = append(b.Notes, Note{Location: loc, Message: fmt.Sprintf(format, args...)})
}

// Print renders the collected notes sorted by location.
func (b *Bag) Print(w io.Writer) {
	if b == nil || len(b.Notes) == 0 {
		return
	}
	notes := make([]Note, len(b.Notes))
	copy(notes, b.Notes)
	sort.SliceStable(notes, func(i, j int) bool {
		a, c := notes[i].Location, notes[j].Location
		if a.IsValid() != c.IsValid() {
			return a.IsValid()
		}
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Line != c.Line {
			return a.Line < c.Line
		}
		return a.Column < c.Column
	})
	for _, n := range notes {
		if n.Location.IsValid() {
			fmt.Fprintf(w, "%s: note: %s\n", n.Location, n.Message)
		} else {
			fmt.Fprintf(w, "note: %s\n", n.Message)
		}
	}
}
