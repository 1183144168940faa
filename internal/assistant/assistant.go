// Package assistant runs the always-listening loop: capture an
// utterance, gate it on the wake word, dispatch the command and speak
// the reply.
package assistant

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/intent"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/stt"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/tts"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/wake"
)

const dispatchTimeout = 60 * time.Second

// Listener captures one utterance of mono 16 kHz PCM.
type Listener interface {
	Record(ctx context.Context) ([]float32, error)
}

// Announcer mirrors replies to screen and desktop.
type Announcer interface {
	Announce(query, answer string)
}

// Ducker lowers other audio streams while the assistant speaks.
type Ducker interface {
	Duck(ctx context.Context) error
	Unduck(ctx context.Context) error
}

// Chimer plays the wake acknowledgement tone.
type Chimer interface {
	Chime(ctx context.Context) error
}

// Config tunes the loop. Zero values fall back to sane defaults.
type Config struct {
	Name          string
	CommandWindow time.Duration // listening bound after the wake word
	Chime         bool
}

// Deps wires the assistant's collaborators. Ducker and Chimer may be
// nil; Voice may be nil for text-only operation.
type Deps struct {
	Gate       *wake.Gate
	Dispatcher *intent.Dispatcher
	Listener   Listener
	Engine     stt.Engine
	Voice      tts.Voice
	Announcer  Announcer
	Ducker     Ducker
	Chimer     Chimer
}

// Assistant owns the single-threaded listen/dispatch cycle. All state
// transitions happen on the Run goroutine; reply output may also come
// from the control socket and is serialized by mu.
type Assistant struct {
	cfg     Config
	gate    *wake.Gate
	disp    *intent.Dispatcher
	ear     Listener
	engine  stt.Engine
	voice   tts.Voice
	ann     Announcer
	ducker  Ducker
	chimer  Chimer
	trigger chan struct{}

	mu sync.Mutex // one reply's console and speech output at a time
}

func New(cfg Config, deps Deps) *Assistant {
	if cfg.Name == "" {
		cfg.Name = "Leo"
	}
	if cfg.CommandWindow <= 0 {
		cfg.CommandWindow = 12 * time.Second
	}

	return &Assistant{
		cfg:     cfg,
		gate:    deps.Gate,
		disp:    deps.Dispatcher,
		ear:     deps.Listener,
		engine:  deps.Engine,
		voice:   deps.Voice,
		ann:     deps.Announcer,
		ducker:  deps.Ducker,
		chimer:  deps.Chimer,
		trigger: make(chan struct{}, 1),
	}
}

// Trigger queues a wake as if the wake word had been heard. Safe to
// call from any goroutine; picked up between captures.
func (a *Assistant) Trigger() {
	select {
	case a.trigger <- struct{}{}:
	default:
	}
}

// Say speaks an arbitrary line, for the control socket. Safe from any
// goroutine; the output is serialized with the loop's own replies.
func (a *Assistant) Say(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.respond(ctx, "", text, text)
}

// Run drives the loop until ctx is cancelled or the user says goodbye,
// then announces the exit line. The error is always nil today; the
// signature leaves room for fatal device loss.
func (a *Assistant) Run(ctx context.Context) error {
	log.Info("Always listening", "wake_word", a.gate.Word())

	a.loop(ctx)
	a.sayGoodbye()

	return nil
}

func (a *Assistant) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.trigger:
			log.Debug("Triggered via control socket")
			a.respond(ctx, "", "Yes?", "Yes?")
			if a.commandRound(ctx) {
				return
			}
			continue
		default:
		}

		text, err := a.listen(ctx, 0)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !errors.Is(err, stt.ErrNoSpeech) {
				log.Error("Listening failed", "err", err)
			}
			continue
		}

		rest, ok := a.gate.Hear(text)
		if !ok {
			log.Debug("No wake word", "heard", text)
			continue
		}

		if a.cfg.Chime && a.chimer != nil {
			if err := a.chimer.Chime(ctx); err != nil {
				log.Debug("Chime failed", "err", err)
			}
		}

		if rest == "" {
			// Bare wake word: acknowledge and wait for the command.
			a.respond(ctx, "", "Yes?", "Yes?")
			if a.commandRound(ctx) {
				return
			}
			continue
		}

		if a.handle(ctx, rest) {
			return
		}
	}
}

// commandRound captures one utterance right after a wake
// acknowledgement. The reported bool means the loop should stop.
func (a *Assistant) commandRound(ctx context.Context) bool {
	text, err := a.listen(ctx, a.cfg.CommandWindow)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		if errors.Is(err, stt.ErrNoSpeech) {
			a.respond(ctx, "", "I didn't catch that.", "I didn't catch that.")
		} else {
			log.Error("Command capture failed", "err", err)
		}
		return false
	}

	return a.handle(ctx, text)
}

// handle dispatches one utterance, speaks the reply and, when the
// dispatcher asked for a numbered choice, listens once more to
// resolve it.
func (a *Assistant) handle(ctx context.Context, utterance string) bool {
	for {
		dctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
		res := a.disp.Dispatch(dctx, utterance)
		cancel()

		a.respond(ctx, utterance, res.Text, res.Spoken())

		if res.Quit {
			log.Info("Farewell received, shutting down")
			return true
		}
		if !res.AwaitChoice {
			return false
		}

		text, err := a.listen(ctx, a.cfg.CommandWindow)
		if err != nil {
			if ctx.Err() != nil {
				return true
			}
			if errors.Is(err, stt.ErrNoSpeech) {
				a.respond(ctx, "", "I didn't catch that.", "I didn't catch that.")
			} else {
				log.Error("Follow-up capture failed", "err", err)
			}
			return false
		}

		utterance = text
	}
}

// listen records one utterance and transcribes it, lowercased. window
// bounds the whole capture when positive.
func (a *Assistant) listen(ctx context.Context, window time.Duration) (string, error) {
	if window > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, window)
		defer cancel()
	}

	pcm, err := a.ear.Record(ctx)
	if err != nil {
		return "", fmt.Errorf("record: %w", err)
	}

	text, err := a.engine.Transcribe(ctx, pcm)
	if err != nil {
		return "", err
	}

	return strings.ToLower(strings.TrimSpace(text)), nil
}

func (a *Assistant) respond(ctx context.Context, query, display, speak string) {
	if display == "" {
		display = speak
	}
	if display == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ann != nil {
		a.ann.Announce(query, display)
	}

	a.speak(ctx, speak)
}

func (a *Assistant) speak(ctx context.Context, text string) {
	if text == "" || a.voice == nil {
		return
	}

	if a.ducker != nil {
		if err := a.ducker.Duck(ctx); err != nil {
			log.Debug("Duck failed", "err", err)
		}
		defer func() {
			if err := a.ducker.Unduck(ctx); err != nil {
				log.Debug("Unduck failed", "err", err)
			}
		}()
	}

	if err := a.voice.Say(ctx, text); err != nil {
		log.Warn("Speech failed", "err", err)
	}
}

// sayGoodbye announces the exit line on every termination. It runs on a
// fresh context; the root one may already be cancelled.
func (a *Assistant) sayGoodbye() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	line := fmt.Sprintf("Exiting %s. Bye!", a.cfg.Name)
	a.respond(ctx, "", line, line)
}
