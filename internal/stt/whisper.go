package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"regexp"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Bracketed whisper.cpp annotations like [BLANK_AUDIO] or (wind blowing)
// are not speech.
var noiseRe = regexp.MustCompile(`^[\[(][^\])]*[\])]$`)

// Whisper runs speech recognition locally through whisper.cpp.
type Whisper struct {
	model    whisper.Model
	language string
	threads  int
}

// NewWhisper loads a ggml model from disk. The model stays resident
// until Close.
func NewWhisper(modelPath, language string, threads int) (*Whisper, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}

	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	if language == "" {
		language = "auto"
	}
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	return &Whisper{model: m, language: language, threads: threads}, nil
}

func (w *Whisper) Name() string { return "whisper" }

func (w *Whisper) Close() error {
	if w.model == nil {
		return nil
	}
	return w.model.Close()
}

func (w *Whisper) Transcribe(ctx context.Context, pcm []float32) (string, error) {
	if w.model == nil {
		return "", errors.New("nil model")
	}
	if len(pcm) == 0 {
		return "", ErrNoSpeech
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}

	if err := wctx.SetLanguage(w.language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetThreads(uint(w.threads))

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var sb strings.Builder

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}

		text := strings.TrimSpace(seg.Text)
		if text == "" || noiseRe.MatchString(text) {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}

	text := sb.String()
	if text == "" {
		return "", ErrNoSpeech
	}

	log.Debug("Whisper transcript", "text", text)

	return text, nil
}
