package web

import (
	"encoding/binary"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/audio"
	"github.com/vovakirdan/flapforge/internal/games/flappy"
)

// SampleRate is the rate of the Ebitengine audio context.
const SampleRate = 48000

const resampleQuality = 4

type encoded struct {
	version uint64
	pcm     []byte
}

// Cues is a flappy.Cues sink that plays library sounds through an
// Ebitengine audio context. Every started player is kept until it finishes
// so StopAll can cut them off.
type Cues struct {
	mu      sync.Mutex
	ctx     *ebaudio.Context
	lib     *assets.Library
	cache   map[assets.Slot]encoded
	players []*ebaudio.Player
	volume  float64
	logger  *log.Logger
}

var _ flappy.Cues = (*Cues)(nil)

// NewCues creates the sink. Only one audio context may exist per process,
// so ctx is passed in. volume is linear in [0, 1].
func NewCues(ctx *ebaudio.Context, lib *assets.Library, volume float64, logger *log.Logger) *Cues {
	return &Cues{
		ctx:    ctx,
		lib:    lib,
		cache:  make(map[assets.Slot]encoded),
		volume: volume,
		logger: logger,
	}
}

// Play starts the sound for c. Cues with an empty slot are ignored.
func (c *Cues) Play(cue flappy.Cue) {
	slot, ok := audio.SlotForCue(cue)
	if !ok || c.lib == nil || c.ctx == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pcm := c.pcm(slot)
	if pcm == nil {
		return
	}
	c.prune()
	p := c.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(c.volume)
	p.Play()
	c.players = append(c.players, p)

	if c.logger != nil {
		c.logger.Debug("cue", "cue", cue, "players", len(c.players))
	}
}

// pcm returns the encoded bytes for slot, re-encoding after the library
// replaced the sound.
func (c *Cues) pcm(slot assets.Slot) []byte {
	v := c.lib.Version(slot)
	if e, ok := c.cache[slot]; ok && e.version == v {
		return e.pcm
	}
	var pcm []byte
	if snd := c.lib.Sound(slot); snd != nil {
		pcm = EncodePCM(snd, SampleRate)
	}
	c.cache[slot] = encoded{version: v, pcm: pcm}
	return pcm
}

// StopAll silences every player that is still running.
func (c *Cues) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.players {
		p.Pause()
		c.close(p)
	}
	c.players = nil
}

// Active returns the number of players not yet reclaimed.
func (c *Cues) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	return len(c.players)
}

func (c *Cues) prune() {
	live := c.players[:0]
	for _, p := range c.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		c.close(p)
	}
	clear(c.players[len(live):])
	c.players = live
}

func (c *Cues) close(p *ebaudio.Player) {
	if err := p.Close(); err != nil && c.logger != nil {
		c.logger.Debug("cannot close player", "error", err)
	}
}

// EncodePCM renders snd as 16-bit little-endian stereo at rate, the layout
// Ebitengine players expect.
func EncodePCM(snd *assets.Sound, rate int) []byte {
	var s beep.Streamer = snd.Streamer()
	target := beep.SampleRate(rate)
	if snd.Format.SampleRate != target {
		s = beep.Resample(resampleQuality, snd.Format.SampleRate, target, s)
	}

	n := target.N(snd.Duration())
	out := make([]byte, 0, (n+1)*4)
	buf := make([][2]float64, 512)
	for {
		read, ok := s.Stream(buf)
		for _, smp := range buf[:read] {
			out = appendSample(out, smp[0])
			out = appendSample(out, smp[1])
		}
		if !ok {
			break
		}
	}
	return out
}

func appendSample(b []byte, v float64) []byte {
	v = max(-1, min(1, v))
	return binary.LittleEndian.AppendUint16(b, uint16(int16(v*32767)))
}
