// Package tts renders assistant replies as audible speech.
package tts

import (
	"context"
	log "log/slog"
)

// Voice renders one utterance, blocking until playback is done.
type Voice interface {
	Name() string
	Say(ctx context.Context, text string) error
}

// Player turns PCM into sound on the default output device.
type Player interface {
	Play(ctx context.Context, pcm []float32, rate int) error
}

// Speaker tries each voice in order until one speaks the line.
// With no voices configured it stays silent and reports success, so
// the assistant can run in text-only mode.
type Speaker struct {
	voices []Voice
}

func NewSpeaker(voices ...Voice) *Speaker {
	return &Speaker{voices: voices}
}

func (s *Speaker) Name() string { return "speaker" }

func (s *Speaker) Say(ctx context.Context, text string) error {
	if text == "" || len(s.voices) == 0 {
		return nil
	}

	var lastErr error

	for _, v := range s.voices {
		err := v.Say(ctx, text)
		if err == nil {
			return nil
		}

		log.Warn("Voice failed, trying next", "voice", v.Name(), "err", err)
		lastErr = err
	}

	return lastErr
}
