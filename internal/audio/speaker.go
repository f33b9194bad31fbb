// Package audio plays the game's sound cues through the system speaker.
package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/games/flappy"
)

const (
	sampleRate = beep.SampleRate(48000)

	resampleQuality = 4
)

// SlotForCue maps a simulation cue to the asset slot holding its sound.
func SlotForCue(c flappy.Cue) (assets.Slot, bool) {
	switch c {
	case flappy.CueJump:
		return assets.SlotJump, true
	case flappy.CueScore:
		return assets.SlotScore, true
	case flappy.CueCrash:
		return assets.SlotCrash, true
	}
	return 0, false
}

type voice struct {
	ctrl *beep.Ctrl
	done atomic.Bool
}

// Speaker is a flappy.Cues sink that mixes library sounds into the default
// output device. Every started voice is tracked so StopAll can silence
// them. Cues whose slot is empty are ignored.
type Speaker struct {
	mu          sync.Mutex
	lib         *assets.Library
	mixer       *beep.Mixer
	voices      []*voice
	volume      float64
	initialized bool
	logger      *log.Logger
}

var _ flappy.Cues = (*Speaker)(nil)

// NewSpeaker creates a speaker that reads sounds from lib. volume is a
// base-2 exponent: 0 plays at the recorded level, -1 at half amplitude.
func NewSpeaker(lib *assets.Library, volume float64, logger *log.Logger) *Speaker {
	return &Speaker{
		lib:    lib,
		mixer:  &beep.Mixer{},
		volume: volume,
		logger: logger,
	}
}

// Initialize opens the output device. Until it succeeds, cues are mixed
// but never reach a device.
func (s *Speaker) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// lockOutput serialises mixer changes with the device goroutine.
func (s *Speaker) lockOutput() func() {
	if !s.initialized {
		return func() {}
	}
	speaker.Lock()
	return speaker.Unlock
}

// Play starts the sound for c. It never blocks on playback.
func (s *Speaker) Play(c flappy.Cue) {
	slot, ok := SlotForCue(c)
	if !ok || s.lib == nil {
		return
	}
	snd := s.lib.Sound(slot)
	if snd == nil {
		return
	}

	var stream beep.Streamer = snd.Streamer()
	if snd.Format.SampleRate != sampleRate {
		stream = beep.Resample(resampleQuality, snd.Format.SampleRate, sampleRate, stream)
	}
	if s.volume != 0 {
		stream = &effects.Volume{Streamer: stream, Base: 2, Volume: s.volume}
	}

	v := &voice{}
	v.ctrl = &beep.Ctrl{Streamer: beep.Seq(stream, beep.Callback(func() {
		v.done.Store(true)
	}))}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	s.voices = append(s.voices, v)
	unlock := s.lockOutput()
	s.mixer.Add(v.ctrl)
	unlock()

	if s.logger != nil {
		s.logger.Debug("cue", "cue", c, "voices", len(s.voices))
	}
}

// StopAll silences every voice that is still playing.
func (s *Speaker) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock := s.lockOutput()
	for _, v := range s.voices {
		v.ctrl.Paused = true
		v.ctrl.Streamer = nil
		v.done.Store(true)
	}
	s.mixer.Clear()
	unlock()
	s.voices = s.voices[:0]
}

// Active returns how many voices have not finished yet.
func (s *Speaker) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	return len(s.voices)
}

// Close stops every voice and detaches from the device.
func (s *Speaker) Close() {
	s.StopAll()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		speaker.Clear()
		s.initialized = false
	}
}

// prune drops finished voices. Callers hold s.mu.
func (s *Speaker) prune() {
	live := s.voices[:0]
	for _, v := range s.voices {
		if !v.done.Load() {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(s.voices); i++ {
		s.voices[i] = nil
	}
	s.voices = live
}
