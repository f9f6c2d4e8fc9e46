package game

import (
	"math"
	"testing"
)

// toneStreamer fills every sample with a constant value on both channels.
type toneStreamer struct{ v float64 }

func (ts toneStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i][0] = ts.v
		samples[i][1] = ts.v
	}
	return len(samples), true
}

func (ts toneStreamer) Err() error { return nil }

func TestLoudnessTapConvergesOnConstantSignal(t *testing.T) {
	tap := newLoudnessTap(toneStreamer{v: 0.5})
	buf := make([][2]float64, loudnessWindow)

	// For a constant 0.5 signal the window RMS is 0.5; the reported level is
	// its compressed magnitude, approached through the smoothing filter.
	want := math.Pow(0.5, 0.3)
	for i := 0; i < 40; i++ {
		tap.Stream(buf)
	}
	if got := tap.Level(); math.Abs(got-want) > 1e-3 {
		t.Errorf("level = %v, want ~%v", got, want)
	}
}

func TestLoudnessTapSmoothingStep(t *testing.T) {
	tap := newLoudnessTap(toneStreamer{v: 0.5})
	buf := make([][2]float64, loudnessWindow)
	tap.Stream(buf)

	// One full-window pass from a zero level: (1 - smoothing) x magnitude.
	want := (1 - loudnessSmoothing) * math.Pow(0.5, 0.3)
	if got := tap.Level(); math.Abs(got-want) > 1e-9 {
		t.Errorf("level after one window = %v, want %v", got, want)
	}
}

func TestLoudnessTapSilenceDecaysToZero(t *testing.T) {
	tap := newLoudnessTap(toneStreamer{v: 0.8})
	buf := make([][2]float64, loudnessWindow)
	for i := 0; i < 10; i++ {
		tap.Stream(buf)
	}
	if tap.Level() == 0 {
		t.Fatal("loud signal should have raised the level")
	}

	tap.Source = toneStreamer{v: 0}
	for i := 0; i < 60; i++ {
		tap.Stream(buf)
	}
	if got := tap.Level(); got > 1e-3 {
		t.Errorf("level = %v after sustained silence, want ~0", got)
	}
}

func TestLoudnessTapLevelClamped(t *testing.T) {
	// An out-of-range signal compresses to a magnitude above 1; Level clamps.
	tap := newLoudnessTap(toneStreamer{v: 1.5})
	buf := make([][2]float64, loudnessWindow)
	for i := 0; i < 40; i++ {
		tap.Stream(buf)
	}
	if got := tap.Level(); got != 1 {
		t.Errorf("level = %v, want clamped to 1", got)
	}
}

func TestLoudnessTapPassesSamplesThrough(t *testing.T) {
	tap := newLoudnessTap(toneStreamer{v: 0.25})
	buf := make([][2]float64, 64)
	n, ok := tap.Stream(buf)
	if n != 64 || !ok {
		t.Fatalf("Stream = (%d, %v), want (64, true)", n, ok)
	}
	for i := range buf {
		if buf[i][0] != 0.25 || buf[i][1] != 0.25 {
			t.Fatalf("sample %d altered: %v", i, buf[i])
		}
	}
}
