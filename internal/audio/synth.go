package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// ParseWave maps a preset name to a Wave.
func ParseWave(s string) (Wave, error) {
	switch s {
	case "sine", "":
		return WaveSine, nil
	case "square":
		return WaveSquare, nil
	case "saw":
		return WaveSaw, nil
	case "noise":
		return WaveNoise, nil
	}
	return 0, fmt.Errorf("unknown wave %q", s)
}

// fadeTime is the linear attack and release applied to every tone.
const fadeTime = 5 * time.Millisecond

// tone is a finite oscillator whose frequency changes by slide Hz per second.
type tone struct {
	wave   Wave
	freq   float64
	slide  float64
	rate   beep.SampleRate
	phase  float64
	pos    int
	total  int
	fade   int
	random *rand.Rand
}

func newTone(w Wave, freq, slide float64, d time.Duration, rate beep.SampleRate, random *rand.Rand) *tone {
	total := rate.N(d)
	fade := rate.N(fadeTime)
	if fade*2 > total {
		fade = total / 2
	}
	return &tone{wave: w, freq: freq, slide: slide, rate: rate, total: total, fade: fade, random: random}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			return i, true
		}
		var val float64
		switch t.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			if t.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (t.phase - 0.5)
		case WaveNoise:
			val = t.random.Float64()*2 - 1
		}
		val *= t.envelope()

		samples[i][0] = val
		samples[i][1] = val

		freq := t.freq + t.slide*float64(t.pos)/float64(t.rate)
		if freq < 0 {
			freq = 0
		}
		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) envelope() float64 {
	if t.fade == 0 {
		return 1
	}
	if t.pos < t.fade {
		return float64(t.pos) / float64(t.fade)
	}
	if left := t.total - t.pos; left < t.fade {
		return float64(left) / float64(t.fade)
	}
	return 1
}

func (t *tone) Err() error { return nil }

// withVolume scales s linearly. Zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
