package game

import (
	"image/color"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"starfield/internal/config"
)

const (
	// dtClampMS caps the per-tick delta so a stalled frame cannot jump the
	// simulation.
	dtClampMS = 100.0

	// connectionSegments is how many pieces a connection line is split into
	// to approximate a linear gradient stroke.
	connectionSegments = 8

	resizeJitterPX = 20.0
)

// Field owns the star collection and drives the whole per-frame cycle:
// population, tick orchestration, connection rendering, trail-fade
// compositing, parallax propagation, and lifecycle.
type Field struct {
	cfg    config.Config
	stars  []*Star
	budget ShootBudget

	Pointer PointerTracker

	width, height  float64 // logical (CSS) size
	pixelW, pixelH int     // backing store = logical size x device scale
	scale          float64

	canvas *ebiten.Image

	clock    func() float64 // monotonic ms; replaceable in tests
	simNow   float64        // simulated time, ms; frozen while paused
	lastTick float64
	ticked   bool
	paused   bool

	fps        float64
	connCount  int
	audioLevel float64

	lastPtr *PointerState
}

// NewField builds a field for a logical canvas of the given size and
// populates it. Scale is the device scale factor (backing pixels per logical
// pixel).
func NewField(cfg config.Config, width, height, scale float64) *Field {
	cfg.Clamp()
	f := &Field{
		cfg:    cfg,
		width:  width,
		height: height,
		scale:  scale,
		pixelW: int(width * scale),
		pixelH: int(height * scale),
	}
	start := time.Now()
	f.clock = func() float64 { return float64(time.Since(start)) / float64(time.Millisecond) }
	f.syncBudget()
	f.populate()
	return f
}

func (f *Field) syncBudget() {
	f.budget.Enabled = f.cfg.ShootingStar.Enabled
	f.budget.MaxAtOnce = f.cfg.ShootingStar.MaxStarsAtOnce
	f.budget.MaxDurationSecs = f.cfg.ShootingStar.MaxShootDurationSeconds
	f.budget.MaxEventSecs = f.cfg.ShootingStar.MaxEventSeconds
}

// populate rebuilds the star collection: an optional clustered subset, the
// remainder scattered with an edge-band bias, then a depth sort so draw order
// goes back to front.
func (f *Field) populate() {
	f.releaseStars()

	total := f.cfg.StarCount
	f.stars = make([]*Star, 0, total)

	if f.cfg.ClustersEnabled && f.cfg.ClusterCount > 0 {
		clustered := f.cfg.ClusterCount * f.cfg.MaxStarsPerCluster
		if clustered > total {
			clustered = total
		}
		perCluster := clustered / f.cfg.ClusterCount
		for c := 0; c < f.cfg.ClusterCount && perCluster > 0; c++ {
			// Cluster centers stay off the edges: 10% padding per side.
			cx := f.width * (0.1 + rand.Float64()*0.8)
			cy := f.height * (0.1 + rand.Float64()*0.8)
			for i := 0; i < perCluster; i++ {
				// Radius biased toward the center.
				r := math.Pow(rand.Float64(), 1.5) * f.cfg.ClusterRadius
				a := rand.Float64() * 2 * math.Pi
				x := clampF(cx+math.Cos(a)*r, 0, f.width)
				y := clampF(cy+math.Sin(a)*r, 0, f.height)
				f.stars = append(f.stars, newStar(x, y, &f.cfg))
			}
		}
	}

	for len(f.stars) < total {
		x, y := f.scatterPos()
		f.stars = append(f.stars, newStar(x, y, &f.cfg))
	}

	sort.Slice(f.stars, func(i, j int) bool { return f.stars[i].Depth < f.stars[j].Depth })
}

// scatterPos picks a position over the full canvas, with a 30% chance of
// landing in a 20%-wide band along one of the four edges so the borders do
// not look sparse.
func (f *Field) scatterPos() (float64, float64) {
	if rand.Float64() < 0.3 {
		band := 0.2
		switch rand.IntN(4) {
		case 0: // left
			return rand.Float64() * f.width * band, rand.Float64() * f.height
		case 1: // right
			return f.width * (1 - band*rand.Float64()), rand.Float64() * f.height
		case 2: // top
			return rand.Float64() * f.width, rand.Float64() * f.height * band
		default: // bottom
			return rand.Float64() * f.width, f.height * (1 - band*rand.Float64())
		}
	}
	return rand.Float64() * f.width, rand.Float64() * f.height
}

// releaseStars returns any in-flight shoot slots to the budget before the
// collection is dropped.
func (f *Field) releaseStars() {
	for _, s := range f.stars {
		if s.Shooting {
			f.budget.Release()
		}
	}
	f.stars = nil
}

// Tick advances the simulation by one frame: elapsed-time bookkeeping,
// parallax propagation, then every star's update, counting pointer
// connections as it goes. Rendering happens later in Draw, which reads the
// state mutated here.
func (f *Field) Tick() {
	if f.paused {
		return
	}
	now := f.clock()
	if !f.ticked {
		f.ticked = true
		f.lastTick = now
	}
	dt := now - f.lastTick
	f.lastTick = now
	if dt > dtClampMS {
		dt = dtClampMS
	}
	f.simNow += dt
	if dt > 0 {
		f.fps = f.fps*0.9 + (1000/dt)*0.1
	}

	ptr := f.Pointer.State()
	f.lastPtr = ptr

	parallaxActive := f.cfg.Parallax.Enabled && ptr != nil
	if parallaxActive {
		k := f.cfg.Parallax.Intensity * f.cfg.Parallax.MaxOffset
		for _, s := range f.stars {
			s.POffX = ptr.NormX * k * s.DepthFactor
			s.POffY = ptr.NormY * k * s.DepthFactor
		}
	}

	tc := tickSnapshot{
		now:                f.simNow,
		connectionDistance: f.cfg.ConnectionDistance,
		moveAway:           f.cfg.MoveStarsAwayFromMouse,
		ellipseEnabled:     f.cfg.EllipseEnabled,
		moveSpeed:          f.cfg.StarMovementSpeed,
		pulseGain:          1,
		parallaxActive:     parallaxActive,
	}
	if f.cfg.Audio.Enabled {
		tc.pulseGain = 1 + f.cfg.Audio.Reactivity*f.audioLevel
	}

	conn := 0
	for _, s := range f.stars {
		s.update(&tc, ptr, &f.budget)
		if ptr != nil && math.Hypot(s.X-ptr.X, s.Y-ptr.Y) < f.cfg.ConnectionDistance {
			conn++
		}
	}
	f.connCount = conn
}

// Draw composites one frame onto screen: translucent background fill for the
// trail fade, then connection lines, then stars back to front. While paused
// the last composited frame is re-blitted untouched.
func (f *Field) Draw(screen *ebiten.Image) {
	f.ensureCanvas()
	if !f.paused {
		f.drawFade()
		if f.cfg.MouseConnectionsEnabled && f.lastPtr != nil {
			f.drawConnections(f.lastPtr)
		}
		for _, s := range f.stars {
			s.draw(f.canvas, f.scale)
		}
	}
	op := &ebiten.DrawImageOptions{}
	screen.DrawImage(f.canvas, op)
}

func (f *Field) ensureCanvas() {
	if f.canvas != nil {
		w, h := f.canvas.Bounds().Dx(), f.canvas.Bounds().Dy()
		if w == f.pixelW && h == f.pixelH {
			return
		}
		f.canvas.Deallocate()
	}
	f.canvas = ebiten.NewImage(maxInt(f.pixelW, 1), maxInt(f.pixelH, 1))
	// Fresh backing store starts fully opaque background.
	f.canvas.Fill(premultiply(f.cfg.Background.Color, 1))
}

// drawFade composites the background at backgroundOpacity x trailFadeSpeed
// alpha over the whole canvas. Lower trail-fade speed leaves longer trails.
func (f *Field) drawFade() {
	a := f.cfg.Background.Opacity * f.cfg.TrailFadeSpeed
	vector.DrawFilledRect(f.canvas, 0, 0, float32(f.pixelW), float32(f.pixelH),
		premultiply(f.cfg.Background.Color, a), false)
}

// drawConnections strokes a gradient line from every in-range star to the
// pointer. The gradient is approximated with short segments whose color and
// alpha interpolate between the two configured endpoint colors.
func (f *Field) drawConnections(ptr *PointerState) {
	maxDist := f.cfg.ConnectionDistance
	if maxDist <= 0 {
		return
	}
	cc := f.cfg.ConnectionColor
	for _, s := range f.stars {
		d := math.Hypot(s.X-ptr.X, s.Y-ptr.Y)
		if d >= maxDist {
			continue
		}
		strength := (1 - d/maxDist) * cc.Opacity
		x0, y0 := (s.X+s.POffX)*f.scale, (s.Y+s.POffY)*f.scale
		x1, y1 := ptr.X*f.scale, ptr.Y*f.scale
		if !isFinite(x0) || !isFinite(y0) {
			continue
		}
		for seg := 0; seg < connectionSegments; seg++ {
			t0 := float64(seg) / connectionSegments
			t1 := float64(seg+1) / connectionSegments
			mid := (t0 + t1) / 2
			col := lerpRGB(cc.Start, cc.End, mid)
			// End color runs slightly dimmer.
			a := strength * lerp(1.0, 0.8, mid)
			vector.StrokeLine(f.canvas,
				float32(lerp(x0, x1, t0)), float32(lerp(y0, y1, t0)),
				float32(lerp(x0, x1, t1)), float32(lerp(y0, y1, t1)),
				float32(f.scale), premultiply(col, a), false)
		}
	}
}

// Resize reconciles the field with a new logical size and device scale. Star
// origins are rescaled by the ratio of new to old size and current positions
// re-derived with a small jitter so the frame after a resize does not snap.
func (f *Field) Resize(width, height, scale float64) {
	if width <= 0 || height <= 0 || scale <= 0 {
		return
	}
	if f.width > 0 && f.height > 0 && (width != f.width || height != f.height) {
		rx := width / f.width
		ry := height / f.height
		for _, s := range f.stars {
			s.OriginX *= rx
			s.OriginY *= ry
			s.X = s.OriginX + (rand.Float64()*2-1)*resizeJitterPX
			s.Y = s.OriginY + (rand.Float64()*2-1)*resizeJitterPX
		}
	}
	f.width = width
	f.height = height
	f.scale = scale
	f.pixelW = int(width * scale)
	f.pixelH = int(height * scale)
}

// Pause freezes the simulation clock. Safe to call repeatedly.
func (f *Field) Pause() {
	f.paused = true
}

// Resume re-arms the tick clock from "now" so the paused duration never
// enters a delta-time computation.
func (f *Field) Resume() {
	if !f.paused {
		return
	}
	f.paused = false
	f.lastTick = f.clock()
}

// Dispose releases per-star resources, the canvas, and the pointer state.
// The field must not be ticked afterwards.
func (f *Field) Dispose() {
	f.paused = true
	f.releaseStars()
	f.Pointer.Leave()
	f.lastPtr = nil
	if f.canvas != nil {
		f.canvas.Deallocate()
		f.canvas = nil
	}
}

// --- Mutators wired to the control panel. Clamping lives here so every
// caller gets the same contract. ---

func (f *Field) SetStarCount(n int) {
	f.cfg.StarCount = n
	f.cfg.Clamp()
	f.populate()
}

// SetConnectionDistance clamps to >= 0.
func (f *Field) SetConnectionDistance(d float64) {
	f.cfg.ConnectionDistance = math.Max(d, 0)
}

// SetEllipseEnabled gates elliptical motion globally. Only stars selected as
// eligible at creation are affected; eligible stars that predate the toggle
// get their path parameters initialized here.
func (f *Field) SetEllipseEnabled(on bool) {
	f.cfg.EllipseEnabled = on
	if on {
		for _, s := range f.stars {
			if s.EligibleEllipse && !s.ellipseInit {
				s.initEllipse(f.cfg.StarMovementSpeed)
			}
		}
	}
}

// SetMovementSpeed rescales every star's elliptical angular speed from its
// remembered base speed.
func (f *Field) SetMovementSpeed(mul float64) {
	f.cfg.StarMovementSpeed = clampF(mul, 0, config.MaxMovementSpeed)
	for _, s := range f.stars {
		s.rescaleSpeed(f.cfg.StarMovementSpeed)
	}
}

// SetTrailFadeSpeed clamps to [0.01, 1.0].
func (f *Field) SetTrailFadeSpeed(v float64) {
	f.cfg.TrailFadeSpeed = clampF(v, config.MinTrailFade, config.MaxTrailFade)
}

func (f *Field) SetBackgroundColor(c config.RGB) {
	f.cfg.Background.Color = c
}

// SetBackgroundOpacity clamps to [0, 1].
func (f *Field) SetBackgroundOpacity(o float64) {
	f.cfg.Background.Opacity = clamp01(o)
}

// SetConnectionOpacity clamps to [0, 1].
func (f *Field) SetConnectionOpacity(o float64) {
	f.cfg.ConnectionColor.Opacity = clamp01(o)
}

func (f *Field) SetMouseConnections(on bool) {
	f.cfg.MouseConnectionsEnabled = on
}

func (f *Field) SetMoveAway(on bool) {
	f.cfg.MoveStarsAwayFromMouse = on
}

func (f *Field) SetParallaxEnabled(on bool) {
	f.cfg.Parallax.Enabled = on
}

// SetParallaxIntensity clamps to [0, 1].
func (f *Field) SetParallaxIntensity(v float64) {
	f.cfg.Parallax.Intensity = clamp01(v)
}

// SetParallaxMaxOffset clamps to >= 0.
func (f *Field) SetParallaxMaxOffset(v float64) {
	f.cfg.Parallax.MaxOffset = math.Max(v, 0)
}

func (f *Field) SetShootingStars(ss config.ShootingStar) {
	f.cfg.ShootingStar = ss
	f.cfg.Clamp()
	f.syncBudget()
}

// SetEllipticalRate changes the creation-time eligibility probability and
// repopulates, since eligibility is never re-rolled on live stars.
func (f *Field) SetEllipticalRate(rate float64) {
	f.cfg.EllipticalMovementRate = clamp01(rate)
	f.populate()
}

func (f *Field) SetClusters(enabled bool, count, maxPerCluster int, radius float64) {
	f.cfg.ClustersEnabled = enabled
	f.cfg.ClusterCount = count
	f.cfg.MaxStarsPerCluster = maxPerCluster
	f.cfg.ClusterRadius = radius
	f.cfg.Clamp()
	f.populate()
}

func (f *Field) SetAudio(a config.Audio) {
	f.cfg.Audio = a
	f.cfg.Clamp()
}

// SetAudioLevel feeds the smoothed soundtrack loudness for the next tick.
func (f *Field) SetAudioLevel(level float64) {
	f.audioLevel = clamp01(level)
}

// --- Diagnostics and accessors. ---

func (f *Field) Config() config.Config  { return f.cfg }
func (f *Field) Paused() bool           { return f.paused }
func (f *Field) FPS() float64           { return f.fps }
func (f *Field) ConnectionCount() int   { return f.connCount }
func (f *Field) Stars() []*Star         { return f.stars }
func (f *Field) PixelSize() (int, int)  { return f.pixelW, f.pixelH }
func (f *Field) LogicalWidth() float64  { return f.width }
func (f *Field) LogicalHeight() float64 { return f.height }

func premultiply(c config.RGB, a float64) color.RGBA {
	a = clamp01(a)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(a * 255),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
