package guides

// Sweep is the per-direction part of a ViewportState.
//
// keepActive and stillActive form a one-way latch: once Break is called
// they stay false for the rest of the sweep, whatever later lines hold.
type Sweep struct {
	keepActive      bool
	stillActive     bool
	lastActiveLevel int
	boundary        int
}

func newSweep(origin, level int, keep, still bool) Sweep {
	return Sweep{
		keepActive:      keep,
		stillActive:     keep && still,
		lastActiveLevel: level,
		boundary:        origin,
	}
}

// KeepActive reports whether the active scope is still continuous.
func (s *Sweep) KeepActive() bool { return s.keepActive }

// StillActive reports whether active guides still render as active.
func (s *Sweep) StillActive() bool { return s.stillActive }

// LastActiveLevel is the shallowest depth met so far in this direction.
func (s *Sweep) LastActiveLevel() int { return s.lastActiveLevel }

// Boundary is the furthest line still inside the continuous active scope.
func (s *Sweep) Boundary() int { return s.boundary }

// Reach records that line still owns the active guide.
func (s *Sweep) Reach(line int) {
	if s.keepActive {
		s.boundary = line
	}
}

// Break ends continuity for the rest of the sweep.
func (s *Sweep) Break() {
	s.keepActive = false
	s.stillActive = false
}

// Narrow lowers the last active level to depth when depth is shallower.
func (s *Sweep) Narrow(depth int) {
	if depth >= 0 && depth < s.lastActiveLevel {
		s.lastActiveLevel = depth
	}
}

// ViewportState is the transient accumulator of one scan.
type ViewportState struct {
	// ActiveLevel is the level resolved on the cursor line, -1 when none.
	// It is fixed once the cursor line is classified.
	ActiveLevel int

	Up   Sweep
	Down Sweep
}

// NewViewportState starts the sweeps at the cursor line. keep requires an
// active guide and a single empty selection; still additionally requires
// active styling to be enabled.
func NewViewportState(cursorLine, activeLevel int, keep, still bool) *ViewportState {
	keep = keep && activeLevel >= 0
	return &ViewportState{
		ActiveLevel: activeLevel,
		Up:          newSweep(cursorLine, activeLevel, keep, still),
		Down:        newSweep(cursorLine, activeLevel, keep, still),
	}
}

// TopActive is the topmost line of the continuous active scope.
func (v *ViewportState) TopActive() int { return v.Up.Boundary() }

// BottomActive is the bottommost line of the continuous active scope.
func (v *ViewportState) BottomActive() int { return v.Down.Boundary() }
