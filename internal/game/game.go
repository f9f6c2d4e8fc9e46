package game

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"starfield/internal/config"
)

// Game wires the field to ebiten's cooperative frame loop: Update is the
// simulation tick, Draw renders, LayoutF reconciles window size and device
// scale. It also owns the control panel, the soundtrack, and config
// persistence on exit.
type Game struct {
	field *Field
	panel *panel
	sound *soundtrack

	cfgPath string
	dirty   bool

	scale              float64
	logicalW, logicalH float64

	userPaused bool
	showStatus bool

	lastErr    error
	pickerOpen bool
	picked     chan pickResult

	touchIDs []ebiten.TouchID
}

type pickResult struct {
	path string
	err  error
}

// New constructs the game and its field. The initial canvas size comes from
// the config package's window defaults; the first LayoutF call reconciles it
// with the real window and device scale.
func New(cfg config.Config, cfgPath string) *Game {
	g := &Game{
		cfgPath:    cfgPath,
		scale:      1,
		logicalW:   config.WindowWidth,
		logicalH:   config.WindowHeight,
		showStatus: true,
		sound:      &soundtrack{},
		picked:     make(chan pickResult, 1),
	}
	g.field = NewField(cfg, g.logicalW, g.logicalH, g.scale)
	g.panel = newPanel(20, 20, g.panelRows())
	return g
}

// markDirty flags the config for save-on-exit.
func (g *Game) markDirty() { g.dirty = true }

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.userPaused = !g.userPaused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.visible = !g.panel.visible
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showStatus = !g.showStatus
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.openAudioPicker()
	}

	// Page-visibility analog: a minimized window pauses the frame work.
	if g.userPaused || ebiten.IsWindowMinimized() {
		g.field.Pause()
	} else {
		g.field.Resume()
	}

	// Finished file-picker dialog?
	select {
	case res := <-g.picked:
		g.pickerOpen = false
		g.onAudioPicked(res)
	default:
	}

	mx, my, hasPointer := g.pointerPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	justReleased := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	consumed := g.panel.update(mx, my, pressed, justPressed, justReleased, g.logicalW, g.logicalH)

	// Panel interaction doubles as pointer-leave so the stars don't chase
	// the cursor while a slider is being dragged.
	if hasPointer && !consumed {
		g.field.Pointer.Move(mx, my, g.logicalW, g.logicalH)
	} else {
		g.field.Pointer.Leave()
	}

	g.field.SetAudioLevel(g.sound.Level())
	g.field.Tick()
	return nil
}

// pointerPosition returns the pointer in logical pixels from the mouse or the
// first active touch, and whether it is inside the canvas.
func (g *Game) pointerPosition() (float64, float64, bool) {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	var cx, cy int
	if len(g.touchIDs) > 0 {
		cx, cy = ebiten.TouchPosition(g.touchIDs[0])
	} else {
		cx, cy = ebiten.CursorPosition()
	}
	x := float64(cx) / g.scale
	y := float64(cy) / g.scale
	inside := x >= 0 && y >= 0 && x < g.logicalW && y < g.logicalH
	return x, y, inside
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.field.Draw(screen)
	g.panel.draw(screen, g.scale)
	if g.showStatus {
		g.drawStatus(screen)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	cfg := g.field.Config()
	status := fmt.Sprintf("%.0f fps | %d stars | %d links", g.field.FPS(), len(g.field.Stars()), g.field.ConnectionCount())
	if g.field.Paused() {
		status += " | paused (space)"
	}
	if g.sound.Playing() {
		status += " | playing " + g.sound.Name() + " " + formatDuration(g.sound.Position())
		if cfg.Audio.Enabled {
			status += " (reactive)"
		}
	}
	if g.lastErr != nil {
		status += " | error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, screen.Bounds().Dy()-18)
}

// Layout satisfies ebiten.Game; LayoutF below is the one ebiten actually
// calls and carries the device scale.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.LayoutF(float64(outsideWidth), float64(outsideHeight))
	return int(w), int(h)
}

// LayoutF sizes the backing store to the window size times the device scale
// factor, and propagates any change to the field.
func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	if outsideWidth != g.logicalW || outsideHeight != g.logicalH || scale != g.scale {
		g.logicalW = outsideWidth
		g.logicalH = outsideHeight
		g.scale = scale
		g.field.Resize(outsideWidth, outsideHeight, scale)
	}
	return outsideWidth * scale, outsideHeight * scale
}

// openAudioPicker shows the native file dialog on its own goroutine; the
// result lands in Update via the picked channel.
func (g *Game) openAudioPicker() {
	if g.pickerOpen {
		return
	}
	g.pickerOpen = true
	go func() {
		path, err := zenity.SelectFile(
			zenity.Title("Open Soundtrack"),
			zenity.FileFilters{{
				Name:     "Audio",
				Patterns: []string{"*.wav", "*.mp3", "*.flac"},
			}},
		)
		g.picked <- pickResult{path: path, err: err}
	}()
}

func (g *Game) onAudioPicked(res pickResult) {
	if res.err != nil {
		if !errors.Is(res.err, zenity.ErrCanceled) {
			g.lastErr = res.err
		}
		return
	}
	cfg := g.field.Config()
	if err := g.sound.Load(res.path, cfg.Audio.Volume); err != nil {
		g.lastErr = err
		return
	}
	g.lastErr = nil
}

// Shutdown stops playback, disposes the field, and persists the config when
// the panel changed anything.
func (g *Game) Shutdown() error {
	g.sound.Stop()
	cfg := g.field.Config()
	g.field.Dispose()
	if !g.dirty || g.cfgPath == "" {
		return nil
	}
	return cfg.Save(g.cfgPath)
}

// panelRows builds the control panel bindings. Every setter goes through a
// field mutator so the clamping contracts hold, then marks the config dirty.
func (g *Game) panelRows() []panelRow {
	f := g.field
	return []panelRow{
		{
			label: "stars", kind: rowSlider, min: 1, max: 2000, format: "%4.0f",
			deferred: true,
			get:      func() float64 { return float64(f.Config().StarCount) },
			set:      func(v float64) { f.SetStarCount(int(v)); g.markDirty() },
		},
		{
			label: "link dist", kind: rowSlider, min: 0, max: 400, format: "%4.0f",
			get: func() float64 { return f.Config().ConnectionDistance },
			set: func(v float64) { f.SetConnectionDistance(v); g.markDirty() },
		},
		{
			label: "links", kind: rowToggle,
			getBool: func() bool { return f.Config().MouseConnectionsEnabled },
			toggle:  func() { f.SetMouseConnections(!f.Config().MouseConnectionsEnabled); g.markDirty() },
		},
		{
			label: "link alpha", kind: rowSlider, min: 0, max: 1, format: "%4.2f",
			get: func() float64 { return f.Config().ConnectionColor.Opacity },
			set: func(v float64) { f.SetConnectionOpacity(v); g.markDirty() },
		},
		{
			label: "repel", kind: rowToggle,
			getBool: func() bool { return f.Config().MoveStarsAwayFromMouse },
			toggle:  func() { f.SetMoveAway(!f.Config().MoveStarsAwayFromMouse); g.markDirty() },
		},
		{
			label: "trail fade", kind: rowSlider, min: config.MinTrailFade, max: config.MaxTrailFade, format: "%4.2f",
			get: func() float64 { return f.Config().TrailFadeSpeed },
			set: func(v float64) { f.SetTrailFadeSpeed(v); g.markDirty() },
		},
		{
			label: "bg alpha", kind: rowSlider, min: 0, max: 1, format: "%4.2f",
			get: func() float64 { return f.Config().Background.Opacity },
			set: func(v float64) { f.SetBackgroundOpacity(v); g.markDirty() },
		},
		{
			label: "speed", kind: rowSlider, min: 0, max: 3, format: "%4.2f",
			get: func() float64 { return f.Config().StarMovementSpeed },
			set: func(v float64) { f.SetMovementSpeed(v); g.markDirty() },
		},
		{
			label: "ellipse", kind: rowToggle,
			getBool: func() bool { return f.Config().EllipseEnabled },
			toggle:  func() { f.SetEllipseEnabled(!f.Config().EllipseEnabled); g.markDirty() },
		},
		{
			label: "ellipse rate", kind: rowSlider, min: 0, max: 1, format: "%4.2f",
			deferred: true,
			get:      func() float64 { return f.Config().EllipticalMovementRate },
			set:      func(v float64) { f.SetEllipticalRate(v); g.markDirty() },
		},
		{
			label: "clusters", kind: rowToggle,
			getBool: func() bool { return f.Config().ClustersEnabled },
			toggle: func() {
				c := f.Config()
				f.SetClusters(!c.ClustersEnabled, c.ClusterCount, c.MaxStarsPerCluster, c.ClusterRadius)
				g.markDirty()
			},
		},
		{
			label: "parallax", kind: rowToggle,
			getBool: func() bool { return f.Config().Parallax.Enabled },
			toggle:  func() { f.SetParallaxEnabled(!f.Config().Parallax.Enabled); g.markDirty() },
		},
		{
			label: "px power", kind: rowSlider, min: 0, max: 1, format: "%4.2f",
			get: func() float64 { return f.Config().Parallax.Intensity },
			set: func(v float64) { f.SetParallaxIntensity(v); g.markDirty() },
		},
		{
			label: "px range", kind: rowSlider, min: 0, max: 120, format: "%4.0f",
			get: func() float64 { return f.Config().Parallax.MaxOffset },
			set: func(v float64) { f.SetParallaxMaxOffset(v); g.markDirty() },
		},
		{
			label: "shooting", kind: rowToggle,
			getBool: func() bool { return f.Config().ShootingStar.Enabled },
			toggle: func() {
				ss := f.Config().ShootingStar
				ss.Enabled = !ss.Enabled
				f.SetShootingStars(ss)
				g.markDirty()
			},
		},
		{
			label: "soundtrack", kind: rowButton,
			press: func() { g.openAudioPicker() },
		},
		{
			label: "reactive", kind: rowToggle,
			getBool: func() bool { return f.Config().Audio.Enabled },
			toggle: func() {
				a := f.Config().Audio
				a.Enabled = !a.Enabled
				f.SetAudio(a)
				g.markDirty()
			},
		},
		{
			label: "volume", kind: rowSlider, min: 0, max: 1, format: "%4.2f",
			get: func() float64 { return f.Config().Audio.Volume },
			set: func(v float64) {
				a := f.Config().Audio
				a.Volume = v
				f.SetAudio(a)
				g.sound.SetVolume(v)
				g.markDirty()
			},
		},
		{
			label: "reactivity", kind: rowSlider, min: 0, max: 2, format: "%4.2f",
			get: func() float64 { return f.Config().Audio.Reactivity },
			set: func(v float64) {
				a := f.Config().Audio
				a.Reactivity = v
				f.SetAudio(a)
				g.markDirty()
			},
		},
	}
}
