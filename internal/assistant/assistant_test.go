package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/intent"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/stt"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/tts"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/wake"
)

// scriptedEar plays canned transcripts, acting as recorder and engine
// at once. Exhausted scripts report silence.
type scriptedEar struct {
	mu    sync.Mutex
	lines []any // string transcripts and errors, in order
}

func (e *scriptedEar) Record(ctx context.Context) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []float32{0.1}, nil
}

func (e *scriptedEar) Name() string { return "scripted" }

func (e *scriptedEar) Close() error { return nil }

func (e *scriptedEar) Transcribe(ctx context.Context, pcm []float32) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.lines) == 0 {
		time.Sleep(2 * time.Millisecond)
		return "", stt.ErrNoSpeech
	}

	next := e.lines[0]
	e.lines = e.lines[1:]

	switch v := next.(type) {
	case string:
		return v, nil
	case error:
		return "", v
	default:
		return "", stt.ErrNoSpeech
	}
}

type fakeAnnouncer struct {
	mu      sync.Mutex
	answers []string
}

func (a *fakeAnnouncer) Announce(query, answer string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers = append(a.answers, answer)
}

func (a *fakeAnnouncer) saw(s string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, v := range a.answers {
		if v == s {
			return true
		}
	}
	return false
}

type fakeVoice struct {
	mu    sync.Mutex
	lines []string
}

func (v *fakeVoice) Name() string { return "fake" }

func (v *fakeVoice) Say(ctx context.Context, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lines = append(v.lines, text)
	return nil
}

func (v *fakeVoice) spoke(s string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, l := range v.lines {
		if l == s {
			return true
		}
	}
	return false
}

// overlapVoice trips when two Say calls run at the same time.
type overlapVoice struct {
	mu      sync.Mutex
	active  int
	overlap bool
	count   int
}

func (v *overlapVoice) Name() string { return "overlap" }

func (v *overlapVoice) Say(ctx context.Context, text string) error {
	v.mu.Lock()
	v.active++
	if v.active > 1 {
		v.overlap = true
	}
	v.mu.Unlock()

	time.Sleep(3 * time.Millisecond)

	v.mu.Lock()
	v.active--
	v.count++
	v.mu.Unlock()

	return nil
}

type fakeAudioCtl struct {
	ups   int
	downs int
}

func (f *fakeAudioCtl) VolumeUp() error   { f.ups++; return nil }
func (f *fakeAudioCtl) VolumeDown() error { f.downs++; return nil }
func (f *fakeAudioCtl) Mute() error       { return nil }
func (f *fakeAudioCtl) Unmute() error     { return nil }

func (f *fakeAudioCtl) SetVolume(percent int) error { return nil }

type fakeFiles struct {
	paths  []string
	opened []string
}

func (f *fakeFiles) Search(term string) ([]string, error) { return f.paths, nil }

func (f *fakeFiles) Open(path string) error {
	f.opened = append(f.opened, path)
	return nil
}

type fakeOracle struct{ asked int }

func (f *fakeOracle) Ask(ctx context.Context, q string) (string, error) {
	f.asked++
	return "answer", nil
}

func newTestAssistant(ear *scriptedEar, skills intent.Skills, ann *fakeAnnouncer, voice tts.Voice) *Assistant {
	return New(Config{Name: "Leo", CommandWindow: time.Second}, Deps{
		Gate:       wake.NewGate("leo"),
		Dispatcher: intent.NewDispatcher(skills),
		Listener:   ear,
		Engine:     ear,
		Voice:      voice,
		Announcer:  ann,
	})
}

func runWait(t *testing.T, ctx context.Context, a *Assistant) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("assistant did not stop")
	}
}

func TestWakeWithInlineCommand(t *testing.T) {
	ear := &scriptedEar{lines: []any{"hey leo volume up", "leo goodbye"}}
	audio := &fakeAudioCtl{}
	ann := &fakeAnnouncer{}

	a := newTestAssistant(ear, intent.Skills{Audio: audio}, ann, nil)
	runWait(t, context.Background(), a)

	if audio.ups != 1 {
		t.Errorf("ups = %d", audio.ups)
	}
	if !ann.saw("Volume up.") {
		t.Error("volume ack not announced")
	}
	if !ann.saw("Goodbye!") {
		t.Error("farewell not announced")
	}
	if !ann.saw("Exiting Leo. Bye!") {
		t.Error("exit line not announced")
	}
}

func TestIgnoresSpeechWithoutWake(t *testing.T) {
	ear := &scriptedEar{lines: []any{"turn up the volume please", "leo goodbye"}}
	audio := &fakeAudioCtl{}
	oracle := &fakeOracle{}

	a := newTestAssistant(ear, intent.Skills{Audio: audio, Oracle: oracle}, &fakeAnnouncer{}, nil)
	runWait(t, context.Background(), a)

	if audio.ups != 0 {
		t.Errorf("ups = %d, nothing should dispatch without the wake word", audio.ups)
	}
	if oracle.asked != 0 {
		t.Errorf("asked = %d", oracle.asked)
	}
}

func TestBareWakeThenCommand(t *testing.T) {
	ear := &scriptedEar{lines: []any{"leo", "volume up", "leo goodbye"}}
	audio := &fakeAudioCtl{}
	ann := &fakeAnnouncer{}

	a := newTestAssistant(ear, intent.Skills{Audio: audio}, ann, nil)
	runWait(t, context.Background(), a)

	if !ann.saw("Yes?") {
		t.Error("bare wake word should prompt")
	}
	if audio.ups != 1 {
		t.Errorf("ups = %d, the command window should not need the wake word", audio.ups)
	}
}

func TestFollowUpSelection(t *testing.T) {
	files := &fakeFiles{paths: []string{"/home/u/a.txt", "/home/u/b.txt"}}
	ear := &scriptedEar{lines: []any{"leo find notes", "2", "leo goodbye"}}
	ann := &fakeAnnouncer{}

	a := newTestAssistant(ear, intent.Skills{Files: files}, ann, nil)
	runWait(t, context.Background(), a)

	if len(files.opened) != 1 || files.opened[0] != "/home/u/b.txt" {
		t.Errorf("opened = %v", files.opened)
	}
	if !ann.saw("Opened: /home/u/b.txt") {
		t.Error("selection ack not announced")
	}
}

func TestCaptureErrorKeepsLoopAlive(t *testing.T) {
	ear := &scriptedEar{lines: []any{errors.New("device lost"), "leo volume up", "leo goodbye"}}
	audio := &fakeAudioCtl{}

	a := newTestAssistant(ear, intent.Skills{Audio: audio}, &fakeAnnouncer{}, nil)
	runWait(t, context.Background(), a)

	if audio.ups != 1 {
		t.Errorf("ups = %d, loop should survive a capture error", audio.ups)
	}
}

func TestNoSpeechAfterWakePrompt(t *testing.T) {
	ear := &scriptedEar{lines: []any{"leo", stt.ErrNoSpeech, "leo volume up", "leo goodbye"}}
	audio := &fakeAudioCtl{}
	ann := &fakeAnnouncer{}

	a := newTestAssistant(ear, intent.Skills{Audio: audio}, ann, nil)
	runWait(t, context.Background(), a)

	if !ann.saw("I didn't catch that.") {
		t.Error("silence in the command window should be acknowledged")
	}
	if audio.ups != 1 {
		t.Errorf("ups = %d", audio.ups)
	}
}

func TestContextCancelExits(t *testing.T) {
	ear := &scriptedEar{}
	ann := &fakeAnnouncer{}

	a := newTestAssistant(ear, intent.Skills{}, ann, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	runWait(t, ctx, a)

	if !ann.saw("Exiting Leo. Bye!") {
		t.Error("cancellation should announce the exit line")
	}
}

func TestTriggerOpensCommandWindow(t *testing.T) {
	ear := &scriptedEar{lines: []any{"volume up", "leo goodbye"}}
	audio := &fakeAudioCtl{}
	ann := &fakeAnnouncer{}

	a := newTestAssistant(ear, intent.Skills{Audio: audio}, ann, nil)
	a.Trigger()

	runWait(t, context.Background(), a)

	if !ann.saw("Yes?") {
		t.Error("trigger should prompt like a bare wake word")
	}
	if audio.ups != 1 {
		t.Errorf("ups = %d", audio.ups)
	}
}

func TestRepliesAreSpoken(t *testing.T) {
	ear := &scriptedEar{lines: []any{"leo volume up", "leo goodbye"}}
	voice := &fakeVoice{}

	a := newTestAssistant(ear, intent.Skills{Audio: &fakeAudioCtl{}}, &fakeAnnouncer{}, voice)
	runWait(t, context.Background(), a)

	if !voice.spoke("Volume up.") {
		t.Errorf("lines spoken: %v", voice.lines)
	}
	if !voice.spoke("Goodbye!") {
		t.Errorf("farewell not spoken: %v", voice.lines)
	}
}

func TestConcurrentSpeechSerialized(t *testing.T) {
	ear := &scriptedEar{lines: []any{"leo volume up", "leo goodbye"}}
	voice := &overlapVoice{}

	a := newTestAssistant(ear, intent.Skills{Audio: &fakeAudioCtl{}}, &fakeAnnouncer{}, voice)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Say("line from the socket")
		}()
	}

	runWait(t, context.Background(), a)
	wg.Wait()

	if voice.overlap {
		t.Error("two speech calls ran at once")
	}
	// 4 socket lines + volume ack + goodbye + exit line.
	if voice.count != 7 {
		t.Errorf("spoken lines = %d, want 7", voice.count)
	}
}
