package guides

// Options holds the settings the guide engine reads.
// It is a plain value built once per configuration reload.
type Options struct {
	// TabSize is the tab width of the editor. Values below 1 mean DefaultTabSize.
	TabSize int

	// FirstIndent renders the column-zero guide.
	FirstIndent bool

	// ExtraIndent admits the end-of-indent guide as an active candidate.
	ExtraIndent bool

	// ExpandBrackets shifts the cursor left by one when it follows a bracket.
	ExpandBrackets bool

	// ActiveEnabled renders the active guide with its own style.
	ActiveEnabled bool

	// StackEnabled renders enclosing guides with the stack style.
	StackEnabled bool

	// HideOnSelection suppresses a category when its mark sits inside a
	// non-empty selection.
	HideOnSelection HideOnSelection

	// LineLimit bounds the outward scan. Values <= 0 scan the whole
	// document, values in (0, 1) are a fraction of half the document, and
	// larger values are a line count in each direction.
	LineLimit float64

	// BackgroundLevels is the size of the background palette. Zero disables
	// background bands.
	BackgroundLevels int
}

// HideOnSelection selects which categories disappear under a selection.
type HideOnSelection struct {
	Active     bool
	Stack      bool
	Normal     bool
	Background bool
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		TabSize:        DefaultTabSize,
		FirstIndent:    true,
		ExtraIndent:    false,
		ExpandBrackets: false,
		ActiveEnabled:  true,
		StackEnabled:   true,
		LineLimit:      500,
	}
}

func (o Options) tabSize() int {
	if o.TabSize < 1 {
		return DefaultTabSize
	}
	return o.TabSize
}
