package guides

import "unicode"

// DefaultTabSize is used whenever a caller reports no usable tab size.
const DefaultTabSize = 4

// Kind classifies a guide mark within its line.
type Kind uint8

const (
	// KindStart is the guide at column zero.
	KindStart Kind = iota
	// KindNormal is a guide strictly inside the leading whitespace.
	KindNormal
	// KindEnd is the guide that coincides with the first non-whitespace character.
	KindEnd
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindNormal:
		return "normal"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Guide is a single indentation guide mark.
type Guide struct {
	Kind Kind

	// Position is the zero-based column of the mark.
	Position int

	// Level counts the tab stops crossed; the start mark is level 0.
	Level int
}

// LineInfo carries facts about a line the caller already knows.
// The zero value means nothing is known.
type LineInfo struct {
	// IsEmptyOrWhitespace skips extraction entirely when set.
	IsEmptyOrWhitespace bool

	// FirstNonWhitespace is the index of the first non-whitespace
	// character. Only used when Known is set.
	FirstNonWhitespace int

	// Known reports whether FirstNonWhitespace was precomputed.
	Known bool
}

// Extract returns the guide marks of a line.
//
// ok is false when the line is empty, or when info says the line holds
// only whitespace. A line whose leading whitespace never completes a tab
// stop returns an empty, non-nil slice with ok set.
//
// A tab stop is either tabSize spaces, or 0..tabSize-1 spaces followed by a
// single tab.
func Extract(text string, tabSize int, info *LineInfo) ([]Guide, bool) {
	if info != nil && info.IsEmptyOrWhitespace {
		return nil, false
	}
	if info == nil && text == "" {
		return nil, false
	}
	if tabSize < 1 {
		tabSize = DefaultTabSize
	}

	runes := []rune(text)
	first := -1
	if info != nil && info.Known {
		first = info.FirstNonWhitespace
	} else {
		first = FirstNonWhitespace(text)
	}
	if first < 0 || first > len(runes) {
		first = len(runes)
	}

	stops := tabStops(runes[:first], tabSize)
	guides := make([]Guide, 0, len(stops)+1)
	if len(stops) == 0 {
		return guides, true
	}

	guides = append(guides, Guide{Kind: KindStart})
	for i, pos := range stops {
		kind := KindNormal
		if pos == first {
			kind = KindEnd
		}
		guides = append(guides, Guide{Kind: kind, Position: pos, Level: i + 1})
	}
	return guides, true
}

// tabStops returns the mark position of every tab stop matched in the
// whitespace prefix. Matching is leftmost and non-overlapping, and runes
// that cannot start a match are skipped. A position is the summed length
// of the matches so far, so skipped runes do not count.
func tabStops(ws []rune, tabSize int) []int {
	var stops []int
	pos := 0
	for i := 0; i < len(ws); {
		end, ok := matchStop(ws, i, tabSize)
		if !ok {
			i++
			continue
		}
		pos += end - i
		stops = append(stops, pos)
		i = end
	}
	return stops
}

// matchStop tries to match one tab stop starting at i.
func matchStop(ws []rune, i, tabSize int) (int, bool) {
	spaces := 0
	for j := i; j < len(ws); j++ {
		switch ws[j] {
		case ' ':
			spaces++
			if spaces == tabSize {
				return j + 1, true
			}
		case '\t':
			return j + 1, true
		default:
			return 0, false
		}
	}
	return 0, false
}

// MeasureLine computes the LineInfo of text.
func MeasureLine(text string) LineInfo {
	first := FirstNonWhitespace(text)
	if first < 0 {
		return LineInfo{
			IsEmptyOrWhitespace: true,
			FirstNonWhitespace:  len([]rune(text)),
			Known:               true,
		}
	}
	return LineInfo{FirstNonWhitespace: first, Known: true}
}

// FirstNonWhitespace returns the column (rune index) of the first
// non-whitespace character of text, or -1 when the line holds only
// whitespace.
func FirstNonWhitespace(text string) int {
	col := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			return col
		}
		col++
	}
	return -1
}

// MaxLevel returns the deepest level among guides, or -1 when there is none.
func MaxLevel(guides []Guide) int {
	if len(guides) == 0 {
		return -1
	}
	return guides[len(guides)-1].Level
}
