package gutter

import (
	"strconv"
	"strings"
)

// numberWidth is the column count the numbers of a document with
// lineCount lines need, never less than minWidth.
func numberWidth(lineCount, minWidth int) int {
	return max(len(strconv.Itoa(max(lineCount, 0))), minWidth)
}

// PadLeft right-aligns s in width columns. Longer strings are kept whole.
func PadLeft(s string, width int) string {
	if n := width - len(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

// FormatPosition formats a zero-based position as one-based "line:col".
func FormatPosition(line, col int) string {
	return strconv.Itoa(line+1) + ":" + strconv.Itoa(col+1)
}
