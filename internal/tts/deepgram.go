package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/pkg/audioconv"
)

const deepgramSpeakURL = "https://api.deepgram.com/v1/speak"

// AuraConfig selects the hosted voice and the synthesis format.
type AuraConfig struct {
	Model   string
	Voice   string
	Format  string // "wav" or "mp3"
	Timeout time.Duration
}

// Aura speaks through Deepgram's hosted Aura voices.
type Aura struct {
	key     string
	baseURL string
	model   string
	voice   string
	format  string
	timeout time.Duration
	hc      *http.Client
	out     Player
}

func NewAura(key string, cfg AuraConfig, hc *http.Client, out Player) *Aura {
	if cfg.Model == "" {
		cfg.Model = "aura-2"
	}
	if cfg.Voice == "" {
		cfg.Voice = "alloy"
	}
	if cfg.Format == "" {
		cfg.Format = "wav"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Aura{
		key:     key,
		baseURL: deepgramSpeakURL,
		model:   cfg.Model,
		voice:   cfg.Voice,
		format:  cfg.Format,
		timeout: cfg.Timeout,
		hc:      hc,
		out:     out,
	}
}

func (a *Aura) Name() string { return "deepgram-aura" }

func (a *Aura) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if a.key == "" {
		return errors.New("DEEPGRAM_API_KEY is not set")
	}

	start := time.Now()

	q := url.Values{}
	q.Set("model", a.model)
	q.Set("voice", a.voice)
	q.Set("format", a.format)

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	// The timeout bounds the API exchange; playback runs on the caller's ctx.
	reqCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.baseURL+"?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	accept := "audio/wav"
	if a.format == "mp3" {
		accept = "audio/mpeg"
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+a.key)
	req.Header.Set("Accept", accept)

	resp, err := a.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("deepgram tts error %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}

	pcm, err := audioconv.Decode(data)
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}

	log.Debug("Aura synthesis complete",
		"voice", a.voice,
		"audioBytes", len(data),
		"took", time.Since(start),
	)

	return a.out.Play(ctx, pcm, audioconv.Rate)
}
