// Package position provides source code position tracking for the Table
// front end. Positions are attached to tokens when they are produced, to AST
// nodes when they are built, and to diagnostics when something goes wrong.
package position

import "fmt"

// Position represents a single point in source code. Line and Column are
// 0-based; String prints them 1-based the way the compiler reports them.
type Position struct {
	Filename string // source file name
	Offset   int    // 0-based byte offset in source
	Line     int    // 0-based line number
	Column   int    // 0-based column number
}

// String returns the position in the compiler's file:line.col report format.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d.%d", p.Filename, p.Line+1, p.Column+1)
	}
	return fmt.Sprintf("%d.%d", p.Line+1, p.Column+1)
}

// Before returns true if this position comes before other.
func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}
	return p.Offset < other.Offset
}

// After returns true if this position comes after other.
func (p Position) After(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename > other.Filename
	}
	return p.Offset > other.Offset
}
