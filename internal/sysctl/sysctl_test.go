package sysctl

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/intent"
)

type fakeRunner struct {
	calls []string
	err   error
}

func (f *fakeRunner) run(name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))
	return nil, f.err
}

func TestMixerCommands(t *testing.T) {
	f := &fakeRunner{}
	m := &Mixer{step: 5, run: f.run}

	if err := m.VolumeUp(); err != nil {
		t.Fatal(err)
	}
	if err := m.VolumeDown(); err != nil {
		t.Fatal(err)
	}
	if err := m.SetVolume(40); err != nil {
		t.Fatal(err)
	}
	if err := m.Mute(); err != nil {
		t.Fatal(err)
	}
	if err := m.Unmute(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"pactl set-sink-volume @DEFAULT_SINK@ +5%",
		"pactl set-sink-volume @DEFAULT_SINK@ -5%",
		"pactl set-sink-volume @DEFAULT_SINK@ 40%",
		"pactl set-sink-mute @DEFAULT_SINK@ 1",
		"pactl set-sink-mute @DEFAULT_SINK@ 0",
	}

	if len(f.calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(f.calls), len(want))
	}
	for i, w := range want {
		if f.calls[i] != w {
			t.Errorf("call %d = %q, want %q", i, f.calls[i], w)
		}
	}
}

func TestMixerSetVolumeClamps(t *testing.T) {
	f := &fakeRunner{}
	m := &Mixer{step: 5, run: f.run}

	if err := m.SetVolume(250); err != nil {
		t.Fatal(err)
	}
	if err := m.SetVolume(-3); err != nil {
		t.Fatal(err)
	}

	if f.calls[0] != "pactl set-sink-volume @DEFAULT_SINK@ 100%" {
		t.Errorf("high clamp: got %q", f.calls[0])
	}
	if f.calls[1] != "pactl set-sink-volume @DEFAULT_SINK@ 0%" {
		t.Errorf("low clamp: got %q", f.calls[1])
	}
}

func TestMixerMissingPactl(t *testing.T) {
	f := &fakeRunner{err: &exec.Error{Name: "pactl", Err: exec.ErrNotFound}}
	m := &Mixer{step: 5, run: f.run}

	err := m.VolumeUp()
	if !errors.Is(err, intent.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable for missing binary, got %v", err)
	}
}

func TestMixerCommandFailureIsNotUnavailable(t *testing.T) {
	f := &fakeRunner{err: errors.New("connection refused")}
	m := &Mixer{step: 5, run: f.run}

	err := m.VolumeUp()
	if err == nil {
		t.Fatal("want error")
	}
	if errors.Is(err, intent.ErrUnavailable) {
		t.Fatal("a failed run must not look like a missing tool")
	}
}

func TestBacklightCommands(t *testing.T) {
	f := &fakeRunner{}
	b := &Backlight{step: 10, run: f.run}

	if err := b.BrightnessUp(); err != nil {
		t.Fatal(err)
	}
	if err := b.BrightnessDown(); err != nil {
		t.Fatal(err)
	}

	if f.calls[0] != "brightnessctl set 10%+" {
		t.Errorf("up: got %q", f.calls[0])
	}
	if f.calls[1] != "brightnessctl set 10%-" {
		t.Errorf("down: got %q", f.calls[1])
	}
}

func TestPowerCommands(t *testing.T) {
	f := &fakeRunner{}
	p := &PowerCtl{run: f.run}

	if err := p.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := p.Restart(); err != nil {
		t.Fatal(err)
	}
	if err := p.Sleep(); err != nil {
		t.Fatal(err)
	}

	want := []string{"systemctl poweroff", "systemctl reboot", "systemctl suspend"}
	for i, w := range want {
		if f.calls[i] != w {
			t.Errorf("call %d = %q, want %q", i, f.calls[i], w)
		}
	}
}

func TestScreenTake(t *testing.T) {
	f := &fakeRunner{}
	s := &Screen{
		cmd: "grim",
		dir: "/tmp/shots",
		run: f.run,
		now: func() time.Time { return time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC) },
	}

	path, err := s.Take()
	if err != nil {
		t.Fatal(err)
	}

	if path != "/tmp/shots/screenshot-20250307-140509.png" {
		t.Errorf("path = %q", path)
	}
	if f.calls[0] != "grim "+path {
		t.Errorf("call = %q", f.calls[0])
	}
}

func TestScreenDefaultsToWorkingDir(t *testing.T) {
	f := &fakeRunner{}
	s := &Screen{
		cmd: "grim",
		run: f.run,
		now: func() time.Time { return time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC) },
	}

	path, err := s.Take()
	if err != nil {
		t.Fatal(err)
	}
	if path != "screenshot-20250307-140509.png" {
		t.Errorf("path = %q", path)
	}
}

func TestNewMixerDefaultStep(t *testing.T) {
	m := NewMixer(0)
	if m.step != 5 {
		t.Errorf("step = %d, want 5", m.step)
	}
}
