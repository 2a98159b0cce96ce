package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/hailam/dragboard/internal/input"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundPromote
	SoundGameEnd
)

const sampleRate = 44100

// soundFor picks the effect for a committed move.
func soundFor(c input.Commit, gameOver bool) SoundType {
	switch {
	case gameOver:
		return SoundGameEnd
	case c.Move.IsPromotion():
		return SoundPromote
	case c.Capture:
		return SoundCapture
	default:
		return SoundMove
	}
}

// AudioManager handles sound effect playback.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates a new audio manager.
func NewAudioManager(enabled bool) *AudioManager {
	return &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  generateSounds(),
		enabled: enabled,
		volume:  0.5,
	}
}

// generateSounds creates procedural sounds for each event type.
func generateSounds() map[SoundType][]byte {
	return map[SoundType][]byte{
		SoundMove:    generateClick(440, 0.08, 0.3),
		SoundCapture: generateClick(330, 0.12, 0.5),
		SoundPromote: generateTone(660, 0.15, 0.35),
		SoundGameEnd: generateChord(0.4, 0.5),
	}
}

// generateClick creates a short percussive click sound.
func generateClick(freq, duration, amplitude float64) []byte {
	return synth(duration, func(i int, t, _ float64) float64 {
		envelope := math.Exp(-t * 30)
		noise := (math.Sin(float64(i)*0.3) + math.Sin(float64(i)*0.7)) * 0.3
		return (math.Sin(2*math.Pi*freq*t) + noise) * envelope * amplitude
	})
}

// generateTone creates a simple tone with attack and decay.
func generateTone(freq, duration, amplitude float64) []byte {
	return synth(duration, func(_ int, t, progress float64) float64 {
		envelope := 1.0 - (progress-0.1)/0.9
		if progress < 0.1 {
			envelope = progress / 0.1
		}
		return math.Sin(2*math.Pi*freq*t) * envelope * amplitude
	})
}

// generateChord creates a C major chord that fades in and out.
func generateChord(duration, amplitude float64) []byte {
	freqs := []float64{261.63, 329.63, 392.00}
	return synth(duration, func(_ int, t, progress float64) float64 {
		envelope := 1.0
		if progress < 0.1 {
			envelope = progress / 0.1
		} else if progress > 0.7 {
			envelope = (1.0 - progress) / 0.3
		}
		sample := 0.0
		for _, f := range freqs {
			sample += math.Sin(2 * math.Pi * f * t)
		}
		return sample / float64(len(freqs)) * envelope * amplitude
	})
}

// synth renders wave as 16-bit little-endian stereo PCM.
func synth(duration float64, wave func(i int, t, progress float64) float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		s := math.Max(-1, math.Min(1, wave(i, t, t/duration)))
		val := int16(s * 32767)
		data[i*4] = byte(val)
		data[i*4+1] = byte(val >> 8)
		data[i*4+2] = byte(val)
		data[i*4+3] = byte(val >> 8)
	}
	return data
}

// Play plays a sound effect.
func (am *AudioManager) Play(sound SoundType) {
	if am == nil || !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	// A player per play lets sounds overlap.
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am != nil && am.enabled
}
