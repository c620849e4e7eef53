package guides

// Band is a background span between two adjacent guides of a line.
type Band struct {
	From, To int

	// Level is the zero-based band index, used to pick a palette color.
	Level int
}

// Ranges is the classification of one line.
type Ranges struct {
	// Stack holds guides shallower than the active one, in order.
	Stack []Guide

	// Active is the active guide, or nil.
	Active *Guide

	// Normal holds every other visible guide, in order.
	Normal []Guide

	// Backgrounds holds one band per pair of adjacent guides.
	Backgrounds []Band
}

// Classify sorts guides into stack, active and normal buckets.
//
// Background bands are emitted for every adjacent pair regardless of the
// visibility rules. The end guide is hidden unless ExtraIndent is set, and
// the start guide is hidden unless FirstIndent is set.
func Classify(opts Options, guides []Guide, active *Guide) Ranges {
	r := Ranges{
		Stack:  []Guide{},
		Normal: []Guide{},
	}
	if active != nil {
		a := *active
		r.Active = &a
	}

	for i, g := range guides {
		if i > 0 {
			r.Backgrounds = append(r.Backgrounds, Band{
				From:  guides[i-1].Position,
				To:    g.Position,
				Level: i - 1,
			})
		}

		if !visible(opts, g) {
			continue
		}

		switch {
		case active == nil || g.Position > active.Position:
			r.Normal = append(r.Normal, g)
		case g.Position < active.Position:
			r.Stack = append(r.Stack, g)
		}
	}
	return r
}

func visible(opts Options, g Guide) bool {
	switch g.Kind {
	case KindEnd:
		return opts.ExtraIndent
	case KindStart:
		return opts.FirstIndent
	default:
		return true
	}
}

// Positions returns the columns of guides.
func Positions(guides []Guide) []int {
	out := make([]int, len(guides))
	for i, g := range guides {
		out[i] = g.Position
	}
	return out
}
