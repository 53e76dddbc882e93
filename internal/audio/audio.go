// Package audio plays the synthesized sound effects and music described in
// gamedata sfx/sounds.yml.
package audio

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"gopkg.in/yaml.v3"

	"github.com/gorp-rogue/gorp/internal/datafile"
	"github.com/gorp-rogue/gorp/internal/guru"
)

const sampleRate = beep.SampleRate(44100)

// Sound is a single synthesized effect.
type Sound struct {
	Wave     string  `yaml:"wave"`
	Freq     float64 `yaml:"freq"`
	Slide    float64 `yaml:"slide"`
	Duration float64 `yaml:"duration"` // seconds
	Volume   float64 `yaml:"volume"`
}

// Music is a monophonic note sequence, one note per beat.
type Music struct {
	Wave   string  `yaml:"wave"`
	BPM    float64 `yaml:"bpm"`
	Volume float64 `yaml:"volume"`
	Notes  string  `yaml:"notes"`
}

// Library holds every preset by name.
type Library struct {
	Sounds map[string]Sound `yaml:"sounds"`
	Music  map[string]Music `yaml:"music"`
}

// LoadLibrary reads sfx/sounds.yml.
func LoadLibrary(data *datafile.Resolver) (*Library, error) {
	raw, err := data.ReadFile("sfx/sounds.yml")
	if err != nil {
		return nil, err
	}
	return ParseLibrary(raw)
}

// ParseLibrary decodes and validates a preset file.
func ParseLibrary(raw []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(raw, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse sounds: %w", err)
	}
	for name, s := range lib.Sounds {
		if _, err := ParseWave(s.Wave); err != nil {
			return nil, fmt.Errorf("sound %s: %w", name, err)
		}
		if s.Duration <= 0 {
			return nil, fmt.Errorf("sound %s: duration must be positive", name)
		}
	}
	for name, m := range lib.Music {
		if _, err := ParseWave(m.Wave); err != nil {
			return nil, fmt.Errorf("music %s: %w", name, err)
		}
		if m.BPM <= 0 {
			return nil, fmt.Errorf("music %s: bpm must be positive", name)
		}
		if _, err := ParseNotes(m.Notes); err != nil {
			return nil, fmt.Errorf("music %s: %w", name, err)
		}
	}
	return &lib, nil
}

// SoundStreamer builds a fresh streamer for the named effect.
func (l *Library) SoundStreamer(name string, random *rand.Rand) (beep.Streamer, error) {
	s, ok := l.Sounds[name]
	if !ok {
		return nil, fmt.Errorf("unknown sound %q", name)
	}
	w, err := ParseWave(s.Wave)
	if err != nil {
		return nil, err
	}
	d := time.Duration(s.Duration * float64(time.Second))
	return withVolume(newTone(w, s.Freq, s.Slide, d, sampleRate, random), s.Volume), nil
}

// MusicStreamer builds one pass of the named track.
func (l *Library) MusicStreamer(name string, random *rand.Rand) (beep.Streamer, error) {
	m, ok := l.Music[name]
	if !ok {
		return nil, fmt.Errorf("unknown music %q", name)
	}
	w, err := ParseWave(m.Wave)
	if err != nil {
		return nil, err
	}
	notes, err := ParseNotes(m.Notes)
	if err != nil {
		return nil, err
	}
	beat := time.Duration(float64(time.Minute) / m.BPM)
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		if n == Rest {
			parts = append(parts, beep.Silence(sampleRate.N(beat)))
			continue
		}
		parts = append(parts, newTone(w, NoteFreq(n), 0, beat, sampleRate, random))
	}
	return withVolume(beep.Seq(parts...), m.Volume), nil
}

// Player mixes effects and a single music track onto the speaker.
type Player struct {
	mu      sync.Mutex
	lib     *Library
	guru    *guru.Guru
	random  *rand.Rand
	mixer   *beep.Mixer
	music   *beep.Ctrl
	enabled bool
}

// NewPlayer initializes the speaker when enable is set. A device that cannot
// be opened is logged and the player stays silent.
func NewPlayer(lib *Library, g *guru.Guru, enable bool) *Player {
	p := &Player{
		lib:    lib,
		guru:   g,
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
		mixer:  &beep.Mixer{},
	}
	if !enable {
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		g.Log("Audio device unavailable, continuing without sound", guru.Warn, "err", err)
		return p
	}
	speaker.Play(p.mixer)
	p.enabled = true
	return p
}

// Enabled reports whether sound reaches a device.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// PlaySound starts the named effect. Unknown names are a nonfatal warning.
func (p *Player) PlaySound(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.lib.SoundStreamer(name, p.random)
	if err != nil {
		p.guru.Nonfatal("Could not play sound: "+err.Error(), guru.Warn)
		return
	}
	if !p.enabled {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// PlayMusic replaces the current track. loop < 0 repeats forever and volume
// scales the preset's own volume.
func (p *Player) PlayMusic(name string, loop int, volume float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	track, err := p.lib.MusicStreamer(name, p.random)
	if err != nil {
		return err
	}
	if !p.enabled {
		return nil
	}
	var s beep.Streamer = track
	if loop != 0 {
		// Loop needs a seeker, so rebuild the track on every pass.
		s = beep.Iterate(p.repeat(name, loop, rand.New(rand.NewSource(p.random.Int63()))))
	}
	s = withVolume(s, volume)
	speaker.Lock()
	retire(p.music)
	p.music = &beep.Ctrl{Streamer: s}
	p.mixer.Add(p.music)
	speaker.Unlock()
	return nil
}

// repeat runs on the speaker goroutine, so it gets its own random source.
func (p *Player) repeat(name string, loop int, random *rand.Rand) func() beep.Streamer {
	played := 0
	return func() beep.Streamer {
		if loop > 0 && played >= loop {
			return nil
		}
		played++
		s, err := p.lib.MusicStreamer(name, random)
		if err != nil {
			return nil
		}
		return s
	}
}

// StopMusic ends the current track.
func (p *Player) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.music == nil || !p.enabled {
		return
	}
	speaker.Lock()
	retire(p.music)
	p.music = nil
	speaker.Unlock()
}

// retire silences a track and drops its streamer so the mixer removes the
// control on its next pass. Call with the speaker locked.
func retire(c *beep.Ctrl) {
	if c == nil {
		return
	}
	c.Paused = true
	c.Streamer = nil
}

// Close silences everything and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.enabled = false
}
