// Package audio plays the background music and the coin sound.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	themeBPM    = 300
	themeVolume = 0.06
	coinVolume  = 0.25
)

// SoundManager manages all game audio
type SoundManager struct {
	mu          sync.Mutex
	logger      *log.Logger
	mixer       *beep.Mixer
	master      *effects.Volume
	music       *beep.Ctrl
	initialized bool
	muted       bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager(logger *log.Logger) *SoundManager {
	if logger == nil {
		logger = log.Default()
	}
	mixer := &beep.Mixer{}
	return &SoundManager{
		logger: logger,
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2},
	}
}

// Initialize opens the speaker. When it fails every Play call stays a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		sm.logger.Warn("audio unavailable", "err", err)
		return err
	}

	sm.master.Silent = sm.muted
	speaker.Play(sm.master)
	sm.initialized = true
	return nil
}

// PlayBackground starts the looping theme. It does nothing if the theme is
// already playing.
func (sm *SoundManager) PlayBackground() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if sm.music != nil {
		sm.music.Paused = false
		return
	}
	sm.music = &beep.Ctrl{Streamer: NewMelody(sampleRate, Theme, themeBPM, themeVolume)}
	sm.mixer.Add(sm.music)
}

// PlayCoin plays the pickup chime over the music.
func (sm *SoundManager) PlayCoin() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Add(NewCoinChime(sampleRate, coinVolume))
	speaker.Unlock()
}

// SetMuted silences or restores all output.
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = muted
	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.master.Silent = muted
	speaker.Unlock()
}

// ToggleMute flips the mute state and returns the new one.
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	muted := !sm.muted
	sm.mu.Unlock()

	sm.SetMuted(muted)
	return muted
}

// Muted reports whether output is silenced.
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Close stops all sounds
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	if sm.music != nil {
		sm.music.Paused = true
	}
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	sm.music = nil
	sm.initialized = false
}

// Silent is a player that plays nothing, for SSH sessions and tests.
type Silent struct{}

func (Silent) PlayBackground()  {}
func (Silent) PlayCoin()        {}
func (Silent) SetMuted(bool)    {}
func (Silent) ToggleMute() bool { return true }
func (Silent) Muted() bool      { return true }
func (Silent) Close()           {}

// Player is what frontends need from a sound backend.
type Player interface {
	PlayBackground()
	PlayCoin()
	ToggleMute() bool
	Close()
}

var (
	_ Player = (*SoundManager)(nil)
	_ Player = Silent{}
)
