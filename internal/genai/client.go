// Package genai generates sprites and short spoken sound effects with the
// Gemini API.
package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gemini "google.golang.org/genai"

	"github.com/vovakirdan/flapforge/internal/config"
)

var (
	// ErrMissingAPIKey is returned before any request when no key is configured.
	ErrMissingAPIKey = errors.New("genai: API key is missing")
	// ErrNoInlineData is returned when a response carries no generated payload.
	ErrNoInlineData = errors.New("genai: response contains no inline data")
)

const apiVersion = "v1beta"

// Media is one generated payload.
type Media struct {
	MIMEType string
	Data     []byte
}

// Client handles communication with the generation service. The SDK client
// is created on first use.
type Client struct {
	endpoint    string
	apiKey      string
	imageModel  string
	speechModel string
	voice       string
	httpClient  *http.Client

	once   sync.Once
	models *gemini.Models
	err    error
}

// New creates a client from the application settings.
func New(s config.GenAISettings) *Client {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		endpoint:    strings.TrimRight(s.Endpoint, "/"),
		apiKey:      s.APIKey,
		imageModel:  s.ImageModel,
		speechModel: s.SpeechModel,
		voice:       s.Voice,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) connect(ctx context.Context) (*gemini.Models, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c.once.Do(func() {
		cfg := &gemini.ClientConfig{
			APIKey:      c.apiKey,
			Backend:     gemini.BackendGeminiAPI,
			HTTPClient:  c.httpClient,
			HTTPOptions: gemini.HTTPOptions{APIVersion: apiVersion},
		}
		if c.endpoint != "" {
			cfg.HTTPOptions.BaseURL = c.endpoint + "/"
		}
		client, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			c.err = fmt.Errorf("genai: cannot create client: %w", err)
			return
		}
		c.models = client.Models
	})
	return c.models, c.err
}

// GenerateImage renders a square sprite from prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*Media, error) {
	models, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := models.GenerateContent(ctx, c.imageModel, gemini.Text(prompt), &gemini.GenerateContentConfig{
		ImageConfig: &gemini.ImageConfig{AspectRatio: "1:1"},
	})
	if err != nil {
		return nil, fmt.Errorf("genai: image generation failed: %w", err)
	}
	media, err := firstInline(resp)
	if err != nil {
		return nil, err
	}
	if media.MIMEType == "" {
		media.MIMEType = "image/png"
	}
	return media, nil
}

// GenerateSpeech speaks word as an excited one-word sound effect. The
// service returns raw 24 kHz mono s16le PCM.
func (c *Client) GenerateSpeech(ctx context.Context, word string) (*Media, error) {
	models, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Say the word %s with an excited tone.", word)
	resp, err := models.GenerateContent(ctx, c.speechModel, gemini.Text(prompt), &gemini.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &gemini.SpeechConfig{
			VoiceConfig: &gemini.VoiceConfig{
				PrebuiltVoiceConfig: &gemini.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("genai: speech generation failed: %w", err)
	}
	return firstInline(resp)
}

// firstInline returns the first part of the first candidate that carries
// inline data.
func firstInline(resp *gemini.GenerateContentResponse) (*Media, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoInlineData
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		return &Media{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}, nil
	}
	return nil, ErrNoInlineData
}
