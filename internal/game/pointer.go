package game

// PointerState is a snapshot of the pointer for one tick. X and Y are
// canvas-local logical pixels; NormX and NormY are in [-1,1] relative to the
// canvas center and feed the parallax offsets.
type PointerState struct {
	X, Y         float64
	NormX, NormY float64
}

// PointerTracker keeps the last known pointer position from mouse or
// single-touch input. The field reads it once per tick; a nil state means no
// pointer is present.
type PointerTracker struct {
	state   PointerState
	present bool
}

// Move records a pointer position in canvas-local coordinates. Width and
// height are the current logical canvas size used for normalization.
func (t *PointerTracker) Move(x, y, width, height float64) {
	t.state.X = x
	t.state.Y = y
	if width > 0 {
		t.state.NormX = clampF(x/width*2-1, -1, 1)
	} else {
		t.state.NormX = 0
	}
	if height > 0 {
		t.state.NormY = clampF(y/height*2-1, -1, 1)
	} else {
		t.state.NormY = 0
	}
	t.present = true
}

// Leave clears the pointer. Subsequent State calls return nil until the next
// Move.
func (t *PointerTracker) Leave() {
	t.present = false
}

// State returns the current pointer snapshot, or nil when the pointer left
// the canvas (or was never seen).
func (t *PointerTracker) State() *PointerState {
	if !t.present {
		return nil
	}
	s := t.state
	return &s
}
