// Package stt turns captured microphone audio into text.
package stt

import (
	"context"
	"errors"
)

// ErrNoSpeech reports that an utterance contained nothing recognizable.
var ErrNoSpeech = errors.New("no speech recognized")

// Engine transcribes one utterance of mono 16 kHz PCM in [-1, 1].
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, pcm []float32) (string, error)
	Close() error
}
