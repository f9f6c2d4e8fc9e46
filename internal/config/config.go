package config

import (
	"encoding/json"
	"os"
)

// Window defaults.
const (
	WindowWidth  = 1280
	WindowHeight = 720
)

// Limits applied by Clamp. Values outside these ranges in a stored file are
// pulled back in rather than rejected.
const (
	MinStarCount = 1
	MaxStarCount = 5000

	MinTrailFade = 0.01
	MaxTrailFade = 1.0

	MaxMovementSpeed = 5.0
)

// HSL describes the base star color. Hue in degrees, saturation and
// lightness in percent.
type HSL struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
}

// RGB is an 8-bit color triple used for the background and connection lines.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

type Background struct {
	Color   RGB     `json:"color"`
	Opacity float64 `json:"opacity"`
}

type ConnectionColor struct {
	Start   RGB     `json:"start"`
	End     RGB     `json:"end"`
	Opacity float64 `json:"opacity"`
}

type Parallax struct {
	Enabled   bool    `json:"enabled"`
	Intensity float64 `json:"intensity"` // [0,1]
	MaxOffset float64 `json:"maxOffset"` // pixels
}

type ShootingStar struct {
	Enabled                 bool    `json:"enabled"`
	MaxStarsAtOnce          int     `json:"maxStarsAtOnce"`
	MaxShootDurationSeconds float64 `json:"maxShootDurationSeconds"`
	MaxEventSeconds         float64 `json:"maxEventSeconds"`
}

type Audio struct {
	Enabled    bool    `json:"enabled"`
	Volume     float64 `json:"volume"`     // [0,1]
	Reactivity float64 `json:"reactivity"` // [0,2], pulse gain per loudness unit
}

// Config is the full persisted configuration. The simulation never reads it
// live; the field takes a snapshot of the relevant values each tick.
type Config struct {
	StarCount               int             `json:"starCount"`
	ConnectionDistance      float64         `json:"connectionDistance"`
	MouseConnectionsEnabled bool            `json:"mouseConnectionsEnabled"`
	MoveStarsAwayFromMouse  bool            `json:"moveStarsAwayFromMouse"`
	StarColor               HSL             `json:"starColor"`
	Background              Background      `json:"background"`
	ConnectionColor         ConnectionColor `json:"connectionColor"`
	TrailFadeSpeed          float64         `json:"trailFadeSpeed"`
	EllipseEnabled          bool            `json:"ellipseEnabled"`
	EllipticalMovementRate  float64         `json:"ellipticalMovementRate"` // probability a star is eligible at creation
	StarMovementSpeed       float64         `json:"starMovementSpeed"`
	ClustersEnabled         bool            `json:"clustersEnabled"`
	MaxStarsPerCluster      int             `json:"maxStarsPerCluster"`
	ClusterCount            int             `json:"clusterCount"`
	ClusterRadius           float64         `json:"clusterRadius"`
	Parallax                Parallax        `json:"parallax"`
	ShootingStar            ShootingStar    `json:"shootingStar"`
	Audio                   Audio           `json:"audio"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	return Config{
		StarCount:               400,
		ConnectionDistance:      150,
		MouseConnectionsEnabled: true,
		MoveStarsAwayFromMouse:  false,
		StarColor:               HSL{Hue: 220, Saturation: 70, Lightness: 70},
		Background:              Background{Color: RGB{R: 8, G: 10, B: 24}, Opacity: 1.0},
		ConnectionColor: ConnectionColor{
			Start:   RGB{R: 120, G: 160, B: 255},
			End:     RGB{R: 200, G: 120, B: 255},
			Opacity: 0.35,
		},
		TrailFadeSpeed:         0.35,
		EllipseEnabled:         true,
		EllipticalMovementRate: 0.3,
		StarMovementSpeed:      1.0,
		ClustersEnabled:        true,
		MaxStarsPerCluster:     25,
		ClusterCount:           4,
		ClusterRadius:          120,
		Parallax:               Parallax{Enabled: true, Intensity: 0.5, MaxOffset: 40},
		ShootingStar: ShootingStar{
			Enabled:                 true,
			MaxStarsAtOnce:          3,
			MaxShootDurationSeconds: 3.0,
			MaxEventSeconds:         9.0,
		},
		Audio: Audio{Enabled: false, Volume: 0.7, Reactivity: 0.8},
	}
}

// Load reads path and merges it over the defaults. A missing or malformed
// file yields the defaults; stored values outside their valid ranges are
// clamped, never treated as fatal.
func Load(path string) Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Discard invalid stored data.
		return Default()
	}
	cfg.Clamp()
	return cfg
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Clamp pulls every field into its valid range.
func (c *Config) Clamp() {
	c.StarCount = clampInt(c.StarCount, MinStarCount, MaxStarCount)
	c.ConnectionDistance = maxF(c.ConnectionDistance, 0)
	c.StarColor.Hue = clampF(c.StarColor.Hue, 0, 360)
	c.StarColor.Saturation = clampF(c.StarColor.Saturation, 0, 100)
	c.StarColor.Lightness = clampF(c.StarColor.Lightness, 0, 100)
	c.Background.Opacity = clampF(c.Background.Opacity, 0, 1)
	c.ConnectionColor.Opacity = clampF(c.ConnectionColor.Opacity, 0, 1)
	c.TrailFadeSpeed = clampF(c.TrailFadeSpeed, MinTrailFade, MaxTrailFade)
	c.EllipticalMovementRate = clampF(c.EllipticalMovementRate, 0, 1)
	c.StarMovementSpeed = clampF(c.StarMovementSpeed, 0, MaxMovementSpeed)
	c.MaxStarsPerCluster = clampInt(c.MaxStarsPerCluster, 1, MaxStarCount)
	c.ClusterCount = clampInt(c.ClusterCount, 0, 64)
	c.ClusterRadius = clampF(c.ClusterRadius, 1, 2000)
	c.Parallax.Intensity = clampF(c.Parallax.Intensity, 0, 1)
	c.Parallax.MaxOffset = maxF(c.Parallax.MaxOffset, 0)
	c.ShootingStar.MaxStarsAtOnce = clampInt(c.ShootingStar.MaxStarsAtOnce, 0, 100)
	c.ShootingStar.MaxShootDurationSeconds = clampF(c.ShootingStar.MaxShootDurationSeconds, 0.5, 30)
	c.ShootingStar.MaxEventSeconds = clampF(c.ShootingStar.MaxEventSeconds, 0.2, 120)
	c.Audio.Volume = clampF(c.Audio.Volume, 0, 1)
	c.Audio.Reactivity = clampF(c.Audio.Reactivity, 0, 2)
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

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxF(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}
