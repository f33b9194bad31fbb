package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF sprites
	_ "image/jpeg" // JPEG sprites
	_ "image/png"  // PNG sprites
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	_ "golang.org/x/image/bmp"  // BMP sprites
	_ "golang.org/x/image/webp" // WebP sprites
)

// PCMSampleRate is the rate of the raw mono s16le audio returned by the
// speech generator.
const PCMSampleRate = beep.SampleRate(24000)

var (
	imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}
	soundExts = []string{".wav", ".mp3", ".pcm", ".raw"}
)

// Sound is a fully decoded sound effect kept in memory so it can be played
// any number of times.
type Sound struct {
	Format beep.Format
	buf    *beep.Buffer
}

// NewSound drains s into memory. The streamer is not closed.
func NewSound(format beep.Format, s beep.Streamer) (*Sound, error) {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("assets: cannot decode audio: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("assets: audio contains no samples")
	}
	return &Sound{Format: format, buf: buf}, nil
}

// Streamer returns a fresh seekable stream over the whole sound.
func (s *Sound) Streamer() beep.StreamSeeker {
	return s.buf.Streamer(0, s.buf.Len())
}

// Len returns the number of samples.
func (s *Sound) Len() int {
	return s.buf.Len()
}

// Duration returns the playback length at the native sample rate.
func (s *Sound) Duration() time.Duration {
	return s.Format.SampleRate.D(s.buf.Len())
}

// DecodeImage decodes any registered sprite format.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("assets: cannot decode image: %w", err)
	}
	return img, nil
}

// DecodeSound decodes a sound effect; ext selects the container and must be
// one of .wav, .mp3, .pcm or .raw (raw 24 kHz mono s16le).
func DecodeSound(r io.Reader, ext string) (*Sound, error) {
	switch strings.ToLower(ext) {
	case ".wav":
		stream, format, err := wav.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("assets: cannot decode wav: %w", err)
		}
		defer stream.Close()
		return NewSound(format, stream)
	case ".mp3":
		rc, ok := r.(io.ReadCloser)
		if !ok {
			rc = io.NopCloser(r)
		}
		stream, format, err := mp3.Decode(rc)
		if err != nil {
			return nil, fmt.Errorf("assets: cannot decode mp3: %w", err)
		}
		defer stream.Close()
		return NewSound(format, stream)
	case ".pcm", ".raw":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("assets: cannot read pcm: %w", err)
		}
		return DecodePCM(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// DecodePCM wraps raw mono signed 16-bit little-endian samples at 24 kHz.
// A trailing odd byte is ignored.
func DecodePCM(data []byte) (*Sound, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("assets: pcm data too short: %d bytes", len(data))
	}
	format := beep.Format{SampleRate: PCMSampleRate, NumChannels: 1, Precision: 2}
	return NewSound(format, newPCMStreamer(data))
}

// SniffSoundExt guesses a container for generated or uploaded audio that
// arrives without a file name.
func SniffSoundExt(data []byte) string {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return ".wav"
	case len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")):
		return ".mp3"
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return ".mp3"
	}
	return ".pcm"
}

// SoundExtForMIME maps a response MIME type to a container extension,
// sniffing data when the type is missing.
func SoundExtForMIME(mime string, data []byte) string {
	m := strings.ToLower(mime)
	switch {
	case m == "":
		return SniffSoundExt(data)
	case strings.Contains(m, "wav"):
		return ".wav"
	case strings.Contains(m, "mpeg"), strings.Contains(m, "mp3"):
		return ".mp3"
	}
	return ".pcm"
}

// ExtFor returns the file extension used when saving a slot's asset.
func ExtFor(slot Slot, data []byte) string {
	if slot.IsSound() {
		return SniffSoundExt(data)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ".png"
	}
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

func supportedExt(slot Slot, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	exts := soundExts
	if slot.IsImage() {
		exts = imageExts
	}
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// pcmStreamer streams mono s16le samples to both channels.
type pcmStreamer struct {
	data []byte
	pos  int // in samples
}

func newPCMStreamer(data []byte) *pcmStreamer {
	return &pcmStreamer{data: data[:len(data)&^1]}
}

func (p *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	total := p.Len()
	if p.pos >= total {
		return 0, false
	}
	for i := range samples {
		if p.pos >= total {
			return i, true
		}
		lo, hi := p.data[2*p.pos], p.data[2*p.pos+1]
		v := float64(int16(uint16(lo)|uint16(hi)<<8)) / 32768
		samples[i][0] = v
		samples[i][1] = v
		p.pos++
	}
	return len(samples), true
}

func (p *pcmStreamer) Err() error { return nil }

func (p *pcmStreamer) Len() int { return len(p.data) / 2 }

func (p *pcmStreamer) Position() int { return p.pos }

func (p *pcmStreamer) Seek(pos int) error {
	if pos < 0 || pos > p.Len() {
		return fmt.Errorf("assets: pcm seek %d out of range [0, %d]", pos, p.Len())
	}
	p.pos = pos
	return nil
}
