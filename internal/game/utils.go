package game

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"starfield/internal/config"
)

// hslToRGB converts an HSL triple (hue 0-360, saturation and lightness 0-100)
// to 8-bit RGB channels.
func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := colorful.Hsl(h, clamp01(s/100), clamp01(l/100))
	r, g, b := c.Clamped().RGB255()
	return r, g, b
}

// lerpRGB linearly interpolates between two colors by t in [0,1].
func lerpRGB(a, b config.RGB, t float64) config.RGB {
	return config.RGB{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
