package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const (
	loudnessWindow    = 2048
	loudnessSmoothing = 0.6
)

// loudnessTap wraps a beep.Streamer and tracks a smoothed RMS loudness of the
// samples flowing through it, so the field can react to the soundtrack
// without touching the audio goroutine's buffers.
type loudnessTap struct {
	Source beep.Streamer

	mu     sync.Mutex
	window [loudnessWindow]float64
	next   int
	level  float64
}

func newLoudnessTap(src beep.Streamer) *loudnessTap {
	return &loudnessTap{Source: src}
}

func (t *loudnessTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			mono := (samples[i][0] + samples[i][1]) * 0.5
			t.window[t.next] = mono * mono
			t.next++
			if t.next >= loudnessWindow {
				t.next = 0
			}
		}
		var sum float64
		for _, v := range t.window {
			sum += v
		}
		rms := math.Sqrt(sum / loudnessWindow)
		// Compress so quiet passages still move the needle.
		mag := math.Pow(rms, 0.3)
		t.level = loudnessSmoothing*t.level + (1-loudnessSmoothing)*mag
		t.mu.Unlock()
	}
	return n, ok
}

func (t *loudnessTap) Err() error { return t.Source.Err() }

// Level returns the current smoothed loudness in [0,1].
func (t *loudnessTap) Level() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return clamp01(t.level)
}

// soundtrack owns the optional ambient audio chain:
// file -> decoder -> loudnessTap -> volume -> ctrl -> speaker.
type soundtrack struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	tap      *loudnessTap

	initDone bool
	playing  bool
	name     string
}

// Level reports the soundtrack's smoothed loudness, zero when idle.
func (st *soundtrack) Level() float64 {
	if st == nil || st.tap == nil || !st.playing {
		return 0
	}
	return st.tap.Level()
}

func (st *soundtrack) Playing() bool { return st != nil && st.playing }
func (st *soundtrack) Name() string  { return st.name }

// Position reports how far into the current track playback has advanced.
func (st *soundtrack) Position() time.Duration {
	if st == nil || st.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := st.streamer.Position()
	speaker.Unlock()
	return st.format.SampleRate.D(pos)
}

// SetVolume maps a [0,1] slider value onto beep's exponential volume.
func (st *soundtrack) SetVolume(v float64) {
	if st.volume == nil {
		return
	}
	speaker.Lock()
	if v <= 0 {
		st.volume.Silent = true
	} else {
		st.volume.Silent = false
		st.volume.Volume = (clamp01(v) - 1) * 4 // 0 dB at 1.0, quiet near 0
	}
	speaker.Unlock()
}

// Load decodes path by extension and starts playback, replacing whatever was
// playing before.
func (st *soundtrack) Load(path string, volume float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch filepath.Ext(path) {
	case ".wav", ".WAV":
		streamer, format, err = wav.Decode(f)
	case ".mp3", ".MP3":
		streamer, format, err = mp3.Decode(f)
	case ".flac", ".FLAC":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return errors.New("unsupported audio file type: " + filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return err
	}

	tap := newLoudnessTap(beep.Loop(-1, streamer))
	vol := &effects.Volume{Streamer: tap, Base: 2}
	ctrl := &beep.Ctrl{Streamer: vol}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !st.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return err
		}
		st.initDone = true
	case st.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return err
		}
	default:
		speaker.Clear()
	}

	st.closeCurrent()
	st.file = f
	st.streamer = streamer
	st.format = format
	st.ctrl = ctrl
	st.volume = vol
	st.tap = tap
	st.playing = true
	st.name = filepath.Base(path)

	st.SetVolume(volume)
	speaker.Play(ctrl)
	return nil
}

// Stop halts playback and closes the current file.
func (st *soundtrack) Stop() {
	if !st.initDone {
		return
	}
	speaker.Clear()
	st.closeCurrent()
	st.playing = false
	st.name = ""
	st.tap = nil
	st.ctrl = nil
	st.volume = nil
}

func (st *soundtrack) closeCurrent() {
	if st.streamer != nil {
		_ = st.streamer.Close()
		st.streamer = nil
	}
	if st.file != nil {
		_ = st.file.Close()
		st.file = nil
	}
}
