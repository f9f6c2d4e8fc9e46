package game

import (
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Star layers are tinted copies of white radial-falloff textures built once.
// This is the 2D-canvas equivalent of a radial gradient fill per layer.
const spriteSize = 64

var (
	spriteOnce sync.Once
	glowSprite *ebiten.Image
	bodySprite *ebiten.Image
	coreSprite *ebiten.Image
)

func starSprites() (glow, body, core *ebiten.Image) {
	spriteOnce.Do(func() {
		// Outer glow: soft squared falloff.
		glowSprite = falloffSprite(func(t float64) float64 { return t * t })
		// Main body: bright center, steeper edge.
		bodySprite = falloffSprite(func(t float64) float64 { return clamp01(1.8 * t * t) })
		// Core: near-solid disc with a thin soft rim.
		coreSprite = falloffSprite(func(t float64) float64 { return clamp01(t * 4) })
	})
	return glowSprite, bodySprite, coreSprite
}

// falloffSprite builds a white circle whose alpha follows f(t), where t is 1
// at the center and 0 at the rim.
func falloffSprite(f func(t float64) float64) *ebiten.Image {
	img := image.NewRGBA(image.Rect(0, 0, spriteSize, spriteSize))
	c := spriteSize / 2.0
	for y := 0; y < spriteSize; y++ {
		for x := 0; x < spriteSize; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			t := 1 - d/c
			if t < 0 {
				t = 0
			}
			a := uint8(f(t) * 255)
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, a})
		}
	}
	return ebiten.NewImageFromImage(img)
}

// draw renders the three layered glows at the star's position plus its
// parallax offset. Non-finite coordinates skip the frame for this star
// instead of panicking inside the renderer.
func (s *Star) draw(dst *ebiten.Image, scale float64) {
	x := (s.X + s.POffX) * scale
	y := (s.Y + s.POffY) * scale
	r := s.Size * scale
	if !isFinite(x) || !isFinite(y) || !isFinite(r) || r <= 0 {
		if !s.drawWarned {
			log.Printf("star: skipping draw, non-finite geometry x=%v y=%v r=%v", x, y, r)
			s.drawWarned = true
		}
		return
	}

	glow, body, core := starSprites()
	cr, cg, cb := hslToRGB(s.Hue, s.Saturation, s.Lightness)
	a := clamp01(s.Alpha)

	drawTinted(dst, glow, x, y, r*2.2, cr, cg, cb, a*0.35)
	drawTinted(dst, body, x, y, r, cr, cg, cb, a)
	wr, wg, wb := hslToRGB(s.Hue, s.Saturation*0.4, 95)
	drawTinted(dst, core, x, y, r*0.3, wr, wg, wb, a)
}

// drawTinted draws a sprite centered at (x, y) with the given radius, tinted
// and alpha-premultiplied, using additive blending for the glow look.
func drawTinted(dst, src *ebiten.Image, x, y, radius float64, r, g, b uint8, a float64) {
	op := &ebiten.DrawImageOptions{}
	d := radius * 2 / spriteSize
	op.GeoM.Scale(d, d)
	op.GeoM.Translate(x-radius, y-radius)
	op.ColorScale.Scale(
		float32(float64(r)/255*a),
		float32(float64(g)/255*a),
		float32(float64(b)/255*a),
		float32(a),
	)
	op.Blend = ebiten.BlendLighter
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
