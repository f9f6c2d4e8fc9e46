package game

import (
	"math"
	"math/rand/v2"

	"starfield/internal/config"
)

// Motion tuning. The blink and shoot trigger chances are per-tick draws at
// ~60fps; a blink lands on each star roughly every 1-3 minutes.
const (
	blinkChance = 0.00015
	blinkMinMS  = 500
	blinkMaxMS  = 1500

	shootChance = 0.005

	retargetMinMS = 3000
	retargetMaxMS = 13000
	sizeEase      = 0.02

	parallaxDecay = 0.9
	parallaxSnap  = 0.1

	repelEase  = 0.12
	repelDecay = 0.9
)

// tickSnapshot is the per-tick view of the configuration. Stars never read
// the live config; the field builds one snapshot per frame and passes it to
// every update.
type tickSnapshot struct {
	now                float64 // simulated time, ms
	connectionDistance float64
	moveAway           bool
	ellipseEnabled     bool
	moveSpeed          float64 // global movement-speed multiplier
	pulseGain          float64 // 1 + audio reactivity * loudness
	parallaxActive     bool    // parallax enabled and pointer present
}

// Star is one animated point. Exactly one motion mode drives its position per
// tick: shooting overrides ellipse and float; blinking only modulates color
// and alpha.
type Star struct {
	X, Y             float64
	OriginX, OriginY float64

	BaseSize float64
	Size     float64
	Depth    float64 // draw-order key in [0,1); higher draws on top
	SpeedMul float64

	Hue, Saturation  float64
	Lightness, Alpha float64
	baseLightness    float64
	baseAlpha        float64

	// Floating motion.
	Amp, Freq, Phase float64

	// Elliptical motion. Eligibility is drawn once at creation; the global
	// toggle only gates stars that won that draw.
	EligibleEllipse bool
	ellipseInit     bool
	RadX, RadY      float64
	EllipseSpeed    float64 // current angular speed, rad per ms
	baseEllipseConf float64 // EllipseSpeed at movement-speed multiplier 1.0
	EllipseAngle    float64
	EllipseRot      float64
	breathA         float64 // per-star multipliers for radius breathing
	breathB         float64

	// Shooting event.
	Shooting              bool
	shootStart, shootDur  float64
	shootX0, shootY0      float64
	shootAngle, shootDist float64

	// Blink.
	Blinking             bool
	blinkStart, blinkDur float64
	blinkL, blinkA       float64

	// Size oscillation.
	pulseAmp, pulseSpeed float64
	sizeMul, sizeTarget  float64
	retargetAt           float64
	repelMul             float64

	// Parallax.
	DepthFactor  float64 // [0.5, 1.0]
	POffX, POffY float64

	// Pointer repulsion offset, accumulated while the pointer is close.
	repelX, repelY float64

	drawWarned bool
}

// newStar creates a star anchored at (x, y) with all per-star parameters
// randomized from their fixed ranges, scaled by the configured global
// movement-speed multiplier.
func newStar(x, y float64, cfg *config.Config) *Star {
	speed := cfg.StarMovementSpeed

	s := &Star{
		X: x, Y: y,
		OriginX: x, OriginY: y,

		BaseSize: 0.6 + rand.Float64()*2.2,
		Depth:    rand.Float64(),
		SpeedMul: 0.5 + rand.Float64(),

		Hue:        clampF(cfg.StarColor.Hue+(rand.Float64()*2-1)*60, 180, 300),
		Saturation: clampF(cfg.StarColor.Saturation+(rand.Float64()*2-1)*10, 0, 100),

		Amp:   (8 + rand.Float64()*18) * math.Max(speed, 0.05),
		Freq:  (0.5 + rand.Float64()) * math.Max(speed, 0.05),
		Phase: rand.Float64() * 2 * math.Pi,

		pulseAmp:   0.1 + rand.Float64()*0.2,
		pulseSpeed: 0.001 + rand.Float64()*0.003,
		sizeMul:    1,
		sizeTarget: 1,
		retargetAt: retargetMinMS + rand.Float64()*(retargetMaxMS-retargetMinMS),
		repelMul:   1,

		DepthFactor: 0.5 + rand.Float64()*0.5,
	}

	s.baseLightness = clampF(cfg.StarColor.Lightness+(rand.Float64()*2-1)*15, 10, 95)
	s.baseAlpha = 0.3 + rand.Float64()*0.7
	s.Lightness = s.baseLightness
	s.Alpha = s.baseAlpha
	s.Size = s.BaseSize

	s.EligibleEllipse = rand.Float64() < cfg.EllipticalMovementRate
	if s.EligibleEllipse {
		s.initEllipse(speed)
	}
	return s
}

// initEllipse draws the elliptical path parameters. Called at creation for
// eligible stars, or lazily when the global toggle first activates a star
// that predates it.
func (s *Star) initEllipse(speedMul float64) {
	s.RadX = 20 + rand.Float64()*60
	s.RadY = 10 + rand.Float64()*40
	s.baseEllipseConf = (0.0002 + rand.Float64()*0.0008) * s.SpeedMul
	s.EllipseSpeed = s.baseEllipseConf * math.Max(speedMul, 0.05)
	s.EllipseAngle = rand.Float64() * 2 * math.Pi
	s.EllipseRot = rand.Float64() * 2 * math.Pi
	s.breathA = 0.5 + rand.Float64()
	s.breathB = 0.5 + rand.Float64()
	s.ellipseInit = true
}

// rescaleSpeed re-derives the angular speed from the remembered base when the
// global movement-speed multiplier changes.
func (s *Star) rescaleSpeed(speedMul float64) {
	if s.ellipseInit {
		s.EllipseSpeed = s.baseEllipseConf * math.Max(speedMul, 0.05)
	}
}

// update advances the star by one tick. The shoot budget is shared across the
// whole field and must be the field's own instance.
func (s *Star) update(tc *tickSnapshot, ptr *PointerState, budget *ShootBudget) {
	now := tc.now

	// Shooting suppresses blink entirely; a blink neither starts nor
	// advances until the shoot completes.
	if !s.Shooting {
		s.updateBlink(now)
	}

	if s.updateShooting(now, budget) {
		s.decayParallax(tc, ptr)
		return
	}

	s.updateSizeTarget(now)

	var offX, offY float64
	if tc.ellipseEnabled && s.EligibleEllipse {
		if !s.ellipseInit {
			s.initEllipse(tc.moveSpeed)
		}
		offX, offY = s.ellipseOffset(now)
	} else {
		offX = math.Sin(now*5e-4*s.Freq+s.Phase) * s.Amp
		offY = math.Cos(now*5e-4*s.Freq*0.5+s.Phase*1.5) * s.Amp * 0.6
	}

	s.X = s.OriginX + offX
	s.Y = s.OriginY + offY

	s.updateRepel(tc, ptr)
	s.X += s.repelX
	s.Y += s.repelY

	s.decayParallax(tc, ptr)

	pulse := 1 + s.pulseAmp*tc.pulseGain*math.Sin(now*s.pulseSpeed+s.Phase)
	s.Size = math.Max(s.BaseSize*s.sizeMul*s.repelMul*pulse, 0.05)
}

func (s *Star) updateBlink(now float64) {
	if !s.Blinking {
		if rand.Float64() < blinkChance {
			s.Blinking = true
			s.blinkStart = now
			s.blinkDur = blinkMinMS + rand.Float64()*(blinkMaxMS-blinkMinMS)
			s.blinkL = s.Lightness
			s.blinkA = s.Alpha
		}
		return
	}
	progress := (now - s.blinkStart) / s.blinkDur
	if progress >= 1 {
		// Restore the pre-blink baseline exactly.
		s.Blinking = false
		s.Lightness = s.blinkL
		s.Alpha = s.blinkA
		return
	}
	env := math.Sin(progress*math.Pi)*0.8 + 1.2
	s.Lightness = clampF(s.blinkL*env, 0, 100)
	s.Alpha = clamp01(s.blinkA * env)
}

// updateShooting advances or starts a shoot event. Returns true when the
// shoot consumed this tick, in which case no other position or size update
// may run.
func (s *Star) updateShooting(now float64, budget *ShootBudget) bool {
	if s.Shooting {
		if !budget.Enabled {
			s.endShoot(budget)
			return false
		}
		progress := (now - s.shootStart) / s.shootDur
		if progress >= 1 {
			s.endShoot(budget)
			return false
		}
		eased := math.Sqrt(progress)
		s.X = s.shootX0 + math.Cos(s.shootAngle)*s.shootDist*eased
		s.Y = s.shootY0 + math.Sin(s.shootAngle)*s.shootDist*eased

		fade := 1 - progress*progress
		s.Lightness = clampF(70+30*fade, 0, 100)
		s.Alpha = clamp01(s.baseAlpha * 1.5 * fade)
		s.Size = s.BaseSize * (1.8 + 0.5*math.Sin(now*0.02))
		return true
	}

	if budget.Allows(now) && rand.Float64() < shootChance {
		// Cancel a blink in flight so restoration has one owner.
		if s.Blinking {
			s.Blinking = false
			s.Lightness = s.blinkL
			s.Alpha = s.blinkA
		}
		budget.Start(now)
		s.Shooting = true
		s.shootStart = now
		s.shootDur = budget.Duration()
		s.shootX0 = s.X
		s.shootY0 = s.Y
		s.shootAngle = rand.Float64() * 2 * math.Pi
		s.shootDist = 150 + rand.Float64()*350
		return true
	}
	return false
}

func (s *Star) endShoot(budget *ShootBudget) {
	s.Shooting = false
	s.Lightness = s.baseLightness
	s.Alpha = s.baseAlpha
	budget.Release()
}

// updateSizeTarget re-rolls the target size multiplier on a randomized 3-13s
// interval and eases the current multiplier toward it.
func (s *Star) updateSizeTarget(now float64) {
	if now >= s.retargetAt {
		s.sizeTarget = 0.8 + rand.Float64()*0.6
		s.retargetAt = now + retargetMinMS + rand.Float64()*(retargetMaxMS-retargetMinMS)
	}
	s.sizeMul += (s.sizeTarget - s.sizeMul) * sizeEase
}

// ellipseOffset projects the star onto its rotated, slowly breathing ellipse.
func (s *Star) ellipseOffset(now float64) (float64, float64) {
	s.EllipseAngle += s.EllipseSpeed * (1 + 0.2*math.Sin(now*0.001))

	rx := s.RadX * (1 + 0.15*math.Sin(now*0.0004*s.breathA))
	ry := s.RadY * (1 + 0.10*math.Sin(now*0.0005*s.breathB))

	ex := math.Cos(s.EllipseAngle) * rx
	ey := math.Sin(s.EllipseAngle) * ry

	cos, sin := math.Cos(s.EllipseRot), math.Sin(s.EllipseRot)
	return ex*cos - ey*sin, ex*sin + ey*cos
}

// updateRepel pushes the star radially away from a nearby pointer and
// inflates its size target; with no pointer nearby both ease back. Distance
// is measured from the rendered position (anchor plus accumulated offset),
// so the push shrinks to zero as the star reaches the threshold.
func (s *Star) updateRepel(tc *tickSnapshot, ptr *PointerState) {
	target := 1.0
	if tc.moveAway && ptr != nil && tc.connectionDistance > 0 {
		dx := s.X + s.repelX - ptr.X
		dy := s.Y + s.repelY - ptr.Y
		d := math.Hypot(dx, dy)
		if d < tc.connectionDistance {
			f := (1 - d/tc.connectionDistance) * 2
			if d > 1e-6 {
				s.repelX += dx / d * f
				s.repelY += dy / d * f
			} else {
				// Pointer dead on the star: full push along a fixed axis.
				s.repelX += f
			}
			target = 1 + (1-d/tc.connectionDistance)*0.5
		} else {
			s.repelX *= repelDecay
			s.repelY *= repelDecay
		}
	} else {
		s.repelX *= repelDecay
		s.repelY *= repelDecay
	}
	s.repelMul += (target - s.repelMul) * repelEase
}

// decayParallax eases the parallax offset back to zero when the field is not
// assigning fresh offsets this tick.
func (s *Star) decayParallax(tc *tickSnapshot, ptr *PointerState) {
	if tc.parallaxActive && ptr != nil {
		return // field assigned the offset before updates ran
	}
	s.POffX *= parallaxDecay
	s.POffY *= parallaxDecay
	if math.Abs(s.POffX) < parallaxSnap {
		s.POffX = 0
	}
	if math.Abs(s.POffY) < parallaxSnap {
		s.POffY = 0
	}
}
