package game

import (
	"testing"
	"time"

	"starfield/internal/config"
)

func TestHSLToRGBExtremes(t *testing.T) {
	tests := []struct {
		name         string
		h, s, l      float64
		wantR, wantG uint8
		wantB        uint8
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 0, 0, 100, 255, 255, 255},
		{"white any hue", 220, 70, 100, 255, 255, 255},
		{"pure red", 0, 100, 50, 255, 0, 0},
		{"pure green", 120, 100, 50, 0, 255, 0},
		{"pure blue", 240, 100, 50, 0, 0, 255},
		{"mid gray", 180, 0, 50, 128, 128, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := hslToRGB(tt.h, tt.s, tt.l)
			if r != tt.wantR || g != tt.wantG || b != tt.wantB {
				t.Errorf("hslToRGB(%v, %v, %v) = (%d, %d, %d), want (%d, %d, %d)",
					tt.h, tt.s, tt.l, r, g, b, tt.wantR, tt.wantG, tt.wantB)
			}
		})
	}
}

func TestHSLToRGBClampsOutOfRangeInputs(t *testing.T) {
	// Saturation and lightness above 100 behave like 100.
	r1, g1, b1 := hslToRGB(220, 150, 120)
	r2, g2, b2 := hslToRGB(220, 100, 100)
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Errorf("out-of-range inputs not clamped: (%d,%d,%d) vs (%d,%d,%d)", r1, g1, b1, r2, g2, b2)
	}
}

func TestLerpRGB(t *testing.T) {
	a := config.RGB{R: 0, G: 100, B: 200}
	b := config.RGB{R: 200, G: 100, B: 0}
	if got := lerpRGB(a, b, 0); got != a {
		t.Errorf("t=0: got %+v, want %+v", got, a)
	}
	if got := lerpRGB(a, b, 1); got != b {
		t.Errorf("t=1: got %+v, want %+v", got, b)
	}
	if got := lerpRGB(a, b, 0.5); got != (config.RGB{R: 100, G: 100, B: 100}) {
		t.Errorf("t=0.5: got %+v", got)
	}
}

func TestClamp01(t *testing.T) {
	if got := clamp01(-0.5); got != 0 {
		t.Errorf("clamp01(-0.5) = %v", got)
	}
	if got := clamp01(1.5); got != 1 {
		t.Errorf("clamp01(1.5) = %v", got)
	}
	if got := clamp01(0.25); got != 0.25 {
		t.Errorf("clamp01(0.25) = %v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{time.Minute, "01:00"},
		{3*time.Minute + 7*time.Second, "03:07"},
		{61 * time.Minute, "61:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
