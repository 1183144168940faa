package audio

import (
	"context"
	"fmt"
	log "log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/pkg/audioconv"
)

const frameSize = 320 // 20 ms at 16 kHz

// RecorderConfig tunes utterance capture.
type RecorderConfig struct {
	SilenceRMS   float64       // frame RMS below this counts as silence
	SilenceHold  time.Duration // trailing silence that ends an utterance
	MaxUtterance time.Duration // hard cap per capture
	DumpDir      string        // when set, every utterance is saved here as WAV
}

// Recorder captures single utterances from the default input device.
type Recorder struct {
	cfg RecorderConfig
}

func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.SilenceRMS <= 0 {
		cfg.SilenceRMS = 0.015
	}
	if cfg.SilenceHold <= 0 {
		cfg.SilenceHold = 600 * time.Millisecond
	}
	if cfg.MaxUtterance <= 0 {
		cfg.MaxUtterance = 10 * time.Second
	}

	return &Recorder{cfg: cfg}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// CheckInput verifies a default capture device exists.
func (r *Recorder) CheckInput() error {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return fmt.Errorf("no default input device: %w", err)
	}

	log.Debug("Capture device", "name", dev.Name, "rate", dev.DefaultSampleRate)

	return nil
}

// Record captures one utterance. It discards leading silence, then
// returns once the speaker stays quiet for SilenceHold or MaxUtterance
// is reached. An all-silent window yields an empty slice, not an error.
func (r *Recorder) Record(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, audioconv.Rate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, audioconv.Rate, len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open capture stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start capture stream: %w", err)
	}
	defer stream.Stop()

	frameDur := time.Duration(frameSize) * time.Second / audioconv.Rate

	holdFrames := int(r.cfg.SilenceHold / frameDur)
	maxFrames := int(r.cfg.MaxUtterance / frameDur)

	var (
		speaking      bool
		silenceFrames int
	)

	for i := 0; i < maxFrames; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read capture stream: %w", err)
		}

		rms := frameRMS(buf)

		if rms > r.cfg.SilenceRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}

		if speaking {
			silenceFrames++
			if silenceFrames >= holdFrames {
				break
			}
			out = append(out, buf...)
		}
	}

	if r.cfg.DumpDir != "" && len(out) > 0 {
		r.dump(out)
	}

	return out, nil
}

func (r *Recorder) dump(pcm []float32) {
	if err := os.MkdirAll(r.cfg.DumpDir, 0o755); err != nil {
		log.Warn("Dump dir unavailable", "dir", r.cfg.DumpDir, "err", err)
		return
	}

	name := "utt-" + time.Now().Format("20060102-150405.000") + ".wav"
	path := filepath.Join(r.cfg.DumpDir, name)

	if err := audioconv.WriteWAV(path, pcm, audioconv.Rate); err != nil {
		log.Warn("Dump failed", "path", path, "err", err)
		return
	}

	log.Debug("Dumped utterance", "path", path, "samples", len(pcm))
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
