package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Panel geometry in logical pixels; scaled by the device factor at draw time.
const (
	panelWidth  = 250
	panelTitleH = 26
	panelRowH   = 24
	panelPad    = 10
	sliderW     = 110
	toggleW     = 16
)

type rowKind uint8

const (
	rowSlider rowKind = iota
	rowToggle
	rowButton
)

// panelRow binds one control to the field (or soundtrack) through closures,
// so all clamping stays behind the mutators.
type panelRow struct {
	label string
	kind  rowKind

	min, max float64
	format   string
	get      func() float64
	set      func(v float64)
	// deferred rows (repopulating sliders) apply only on drag release.
	deferred bool
	pending  float64

	getBool func() bool
	toggle  func()

	press func()
}

// panel is the in-canvas control panel: draggable by its title bar,
// minimizable, with slider and toggle rows wired to the field's mutators.
type panel struct {
	x, y      float64
	minimized bool
	visible   bool

	dragging           bool
	dragOffX, dragOffY float64
	activeRow          int

	rows []panelRow
}

func newPanel(x, y float64, rows []panelRow) *panel {
	return &panel{x: x, y: y, visible: true, activeRow: -1, rows: rows}
}

func (p *panel) height() float64 {
	if p.minimized {
		return panelTitleH
	}
	return panelTitleH + float64(len(p.rows))*panelRowH + panelPad
}

// contains reports whether a logical-pixel point is over the panel, used to
// keep panel interaction from leaking into the star field's pointer state.
func (p *panel) contains(x, y float64) bool {
	return p.visible && x >= p.x && x <= p.x+panelWidth && y >= p.y && y <= p.y+p.height()
}

// update processes one frame of mouse input in logical pixels. Returns true
// when the panel consumed the input.
func (p *panel) update(mx, my float64, pressed, justPressed, justReleased bool, maxX, maxY float64) bool {
	if !p.visible {
		return false
	}

	// Title-bar drag, same pattern as a progress-bar drag: grab on press,
	// follow while held, release anywhere.
	if p.dragging {
		p.x = clampF(mx-p.dragOffX, 0, maxX-panelWidth)
		p.y = clampF(my-p.dragOffY, 0, maxY-panelTitleH)
		if justReleased {
			p.dragging = false
		}
		return true
	}

	// Slider drag in progress.
	if p.activeRow >= 0 {
		row := &p.rows[p.activeRow]
		v := p.sliderValue(row, mx)
		if row.deferred {
			row.pending = v
		} else {
			row.set(v)
		}
		if justReleased {
			if row.deferred {
				row.set(row.pending)
			}
			p.activeRow = -1
		}
		return true
	}

	over := p.contains(mx, my)
	if !over {
		return false
	}
	if !justPressed {
		return over && pressed
	}

	// Minimize button: right end of the title bar.
	if my <= p.y+panelTitleH {
		if mx >= p.x+panelWidth-panelTitleH {
			p.minimized = !p.minimized
		} else {
			p.dragging = true
			p.dragOffX = mx - p.x
			p.dragOffY = my - p.y
		}
		return true
	}
	if p.minimized {
		return true
	}

	idx := int((my - p.y - panelTitleH) / panelRowH)
	if idx < 0 || idx >= len(p.rows) {
		return true
	}
	row := &p.rows[idx]
	switch row.kind {
	case rowSlider:
		if mx >= p.sliderX0() {
			p.activeRow = idx
			v := p.sliderValue(row, mx)
			if row.deferred {
				row.pending = v
			} else {
				row.set(v)
			}
		}
	case rowToggle:
		row.toggle()
	case rowButton:
		row.press()
	}
	return true
}

func (p *panel) sliderX0() float64 {
	return p.x + panelWidth - panelPad - sliderW
}

func (p *panel) sliderValue(row *panelRow, mx float64) float64 {
	t := clamp01((mx - p.sliderX0()) / sliderW)
	return row.min + t*(row.max-row.min)
}

func (p *panel) draw(screen *ebiten.Image, scale float64) {
	if !p.visible {
		return
	}
	s := func(v float64) float32 { return float32(v * scale) }

	bg := color.RGBA{R: 16, G: 20, B: 34, A: 230}
	border := color.RGBA{R: 70, G: 80, B: 110, A: 255}
	title := color.RGBA{R: 30, G: 38, B: 62, A: 245}
	track := color.RGBA{R: 46, G: 54, B: 80, A: 255}
	fill := color.RGBA{R: 110, G: 150, B: 235, A: 255}

	h := p.height()
	vector.DrawFilledRect(screen, s(p.x), s(p.y), s(panelWidth), s(h), bg, false)
	vector.StrokeRect(screen, s(p.x), s(p.y), s(panelWidth), s(h), 1, border, false)
	vector.DrawFilledRect(screen, s(p.x), s(p.y), s(panelWidth), s(panelTitleH), title, false)
	ebitenutil.DebugPrintAt(screen, "starfield", int(s(p.x+panelPad)), int(s(p.y+6)))

	// Minimize glyph.
	glyph := "-"
	if p.minimized {
		glyph = "+"
	}
	ebitenutil.DebugPrintAt(screen, glyph, int(s(p.x+panelWidth-panelTitleH+8)), int(s(p.y+6)))
	if p.minimized {
		return
	}

	for i := range p.rows {
		row := &p.rows[i]
		ry := p.y + panelTitleH + float64(i)*panelRowH
		ebitenutil.DebugPrintAt(screen, row.label, int(s(p.x+panelPad)), int(s(ry+4)))

		switch row.kind {
		case rowSlider:
			v := row.get()
			if p.activeRow == i && row.deferred {
				v = row.pending
			}
			t := 0.0
			if row.max > row.min {
				t = clamp01((v - row.min) / (row.max - row.min))
			}
			tx := p.sliderX0()
			ty := ry + panelRowH/2 - 2
			vector.DrawFilledRect(screen, s(tx), s(ty), s(sliderW), s(4), track, false)
			vector.DrawFilledRect(screen, s(tx), s(ty), s(sliderW*t), s(4), fill, false)
			vector.DrawFilledCircle(screen, s(tx+sliderW*t), s(ty+2), s(5), fill, false)
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf(row.format, v),
				int(s(tx-46)), int(s(ry+4)))
		case rowToggle:
			tx := p.x + panelWidth - panelPad - toggleW
			ty := ry + (panelRowH-toggleW)/2
			vector.StrokeRect(screen, s(tx), s(ty), s(toggleW), s(toggleW), 1, border, false)
			if row.getBool() {
				vector.DrawFilledRect(screen, s(tx+3), s(ty+3), s(toggleW-6), s(toggleW-6), fill, false)
			}
		case rowButton:
			tx := p.x + panelWidth - panelPad - sliderW
			vector.StrokeRect(screen, s(tx), s(ry+3), s(sliderW), s(panelRowH-6), 1, border, false)
			ebitenutil.DebugPrintAt(screen, "open...", int(s(tx+8)), int(s(ry+4)))
		}
	}
}
