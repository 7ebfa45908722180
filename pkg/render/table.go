package render

import "github.com/user/wordgo/pkg/word"

// tableRow writes the collected row as lines of |-separated cells. Cell
// text wraps inside its column.
func (r *renderer) tableRow() {
	text := r.line
	if n := len(text); n > 0 && (text[n-1] == word.CharTableSeparator || text[n-1] == '\n') {
		text = text[:n-1]
	}
	if n := len(text); n > 0 && text[n-1] == word.CharTableSeparator {
		text = text[:n-1]
	}

	cells := splitCells(text)
	if len(cells) != r.row.Columns() {
		r.log.Warn("Skipping an unmatched table row", "cells", len(cells), "columns", r.row.Columns(), "offset", r.row.Start)
		return
	}
	widths := make([]int, len(cells))
	for i, twips := range r.row.ColumnWidths {
		widths[i] = columnWidth(twips)
	}

	for {
		more := false
		out := []rune{'|'}
		for i, cell := range cells {
			n := cellLength(cell, widths[i])
			if n <= 0 {
				cells[i] = nil
			} else {
				out = append(out, cell[:n]...)
				rest := cell[n:]
				for len(rest) > 0 && rest[0] == ' ' {
					rest = rest[1:]
				}
				cells[i] = rest
				if len(rest) > 0 {
					more = true
				}
			}
			for j := n; j < widths[i]; j++ {
				out = append(out, ' ')
			}
			out = append(out, '|')
		}
		r.writeLine(out)
		if !more {
			return
		}
	}
}

// splitCells splits a row at its cell separators. A row has at most
// word.TableColumnMax cells; further separators stay in the last one.
func splitCells(text []rune) [][]rune {
	cells := [][]rune{}
	start := 0
	for i, c := range text {
		if c == word.CharTableSeparator && len(cells) < word.TableColumnMax-1 {
			cells = append(cells, text[start:i])
			start = i + 1
		}
	}
	return append(cells, text[start:])
}

// columnWidth converts a column width to characters, keeping one for the
// separator.
func columnWidth(twips int) int {
	w := int(word.TwipsToMilliPoints(int64(twips)) / charWidth)
	if w < 1 {
		return 1
	}
	if w > 1 {
		w--
	}
	return w
}

// cellLength returns how much of cell fits on one line of a column. A line
// ends after a newline, which becomes a space, or at the last space that
// fits.
func cellLength(cell []rune, width int) int {
	n := min(len(cell), width)
	for i := 0; i < n; i++ {
		if cell[i] == '\n' {
			n = i + 1
			break
		}
	}
	if n >= 1 && cell[n-1] == '\n' {
		cell[n-1] = ' '
	}
	if n == width && n < len(cell) && !isSpace(cell[n]) {
		for i := n - 1; i >= 0; i-- {
			if isSpace(cell[i]) {
				return i + 1
			}
		}
	}
	return n
}
