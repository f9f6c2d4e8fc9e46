package game

import "testing"

func TestPointerNormalization(t *testing.T) {
	tests := []struct {
		name           string
		x, y           float64
		wantNX, wantNY float64
	}{
		{"center", 400, 300, 0, 0},
		{"top left", 0, 0, -1, -1},
		{"bottom right", 800, 600, 1, 1},
		{"quarter in", 200, 150, -0.5, -0.5},
		{"outside right clamps", 900, 300, 1, 0},
		{"outside top clamps", 400, -50, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PointerTracker
			p.Move(tt.x, tt.y, 800, 600)
			st := p.State()
			if st == nil {
				t.Fatal("state nil after move")
			}
			if st.X != tt.x || st.Y != tt.y {
				t.Errorf("raw position = (%v, %v), want (%v, %v)", st.X, st.Y, tt.x, tt.y)
			}
			if st.NormX != tt.wantNX || st.NormY != tt.wantNY {
				t.Errorf("normalized = (%v, %v), want (%v, %v)", st.NormX, st.NormY, tt.wantNX, tt.wantNY)
			}
		})
	}
}

func TestPointerLeaveClearsState(t *testing.T) {
	var p PointerTracker
	if p.State() != nil {
		t.Fatal("fresh tracker should report no pointer")
	}
	p.Move(10, 20, 800, 600)
	if p.State() == nil {
		t.Fatal("state should exist after move")
	}
	p.Leave()
	if p.State() != nil {
		t.Error("state should be nil after leave")
	}
	p.Move(30, 40, 800, 600)
	if st := p.State(); st == nil || st.X != 30 {
		t.Error("tracker should accept moves again after leave")
	}
}

func TestPointerStateIsACopy(t *testing.T) {
	var p PointerTracker
	p.Move(100, 100, 800, 600)
	st := p.State()
	st.X = -1
	if p.State().X != 100 {
		t.Error("mutating the returned state leaked into the tracker")
	}
}
