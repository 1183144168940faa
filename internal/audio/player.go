package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/pkg/audioconv"
)

// Player renders PCM through the default output device. beep's speaker
// owns the device, so one Player serves the whole process.
type Player struct {
	mu   sync.Mutex
	rate beep.SampleRate
	open bool
}

func NewPlayer() *Player { return &Player{} }

// Init opens the output device at the given mix rate. Later calls are
// no-ops; streams at other rates are resampled on the fly.
func (p *Player) Init(rate int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		return nil
	}

	sr := beep.SampleRate(rate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	p.rate = sr
	p.open = true

	return nil
}

func (p *Player) mixRate() beep.SampleRate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// Play blocks until the samples finish or ctx is cancelled.
func (p *Player) Play(ctx context.Context, pcm []float32, rate int) error {
	if len(pcm) == 0 {
		return nil
	}
	if err := p.Init(rate); err != nil {
		return err
	}

	var s beep.Streamer = &pcmStreamer{pcm: pcm}

	if mix := p.mixRate(); beep.SampleRate(rate) != mix {
		s = beep.Resample(4, beep.SampleRate(rate), mix, s)
	}

	return p.playBlocking(ctx, s)
}

// Chime plays a short attention tone.
func (p *Player) Chime(ctx context.Context) error {
	if err := p.Init(audioconv.Rate); err != nil {
		return err
	}

	sr := p.mixRate()

	tone, err := generators.SinTone(sr, 880)
	if err != nil {
		return fmt.Errorf("sin tone: %w", err)
	}

	return p.playBlocking(ctx, beep.Take(sr.N(150*time.Millisecond), tone))
}

func (p *Player) playBlocking(ctx context.Context, s beep.Streamer) error {
	done := make(chan struct{})

	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// pcmStreamer adapts mono float32 PCM to beep's stereo stream model.
type pcmStreamer struct {
	pcm []float32
	pos int
}

func (s *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.pcm) {
		return 0, false
	}

	n := 0
	for i := range samples {
		if s.pos >= len(s.pcm) {
			break
		}
		v := float64(s.pcm[s.pos])
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
		n++
	}

	return n, true
}

func (s *pcmStreamer) Err() error { return nil }
