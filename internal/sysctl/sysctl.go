// Package sysctl drives desktop-level controls (mixer volume, backlight,
// power state, screenshots) by shelling out to the usual Linux tools.
package sysctl

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/intent"
)

const defaultSink = "@DEFAULT_SINK@"

// Runner executes an external command and returns its combined output.
type Runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// wrap marks a missing binary as ErrUnavailable so callers can tell
// "this desktop has no pactl" apart from a command that ran and failed.
func wrap(tool string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s: %w", tool, intent.ErrUnavailable)
	}

	return fmt.Errorf("%s: %w", tool, err)
}

// Mixer adjusts the default PulseAudio/PipeWire sink via pactl.
type Mixer struct {
	step int
	run  Runner
}

func NewMixer(step int) *Mixer {
	if step <= 0 {
		step = 5
	}

	return &Mixer{step: step, run: execRunner}
}

func (m *Mixer) VolumeUp() error {
	_, err := m.run("pactl", "set-sink-volume", defaultSink, fmt.Sprintf("+%d%%", m.step))
	return wrap("pactl", err)
}

func (m *Mixer) VolumeDown() error {
	_, err := m.run("pactl", "set-sink-volume", defaultSink, fmt.Sprintf("-%d%%", m.step))
	return wrap("pactl", err)
}

func (m *Mixer) SetVolume(percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	_, err := m.run("pactl", "set-sink-volume", defaultSink, fmt.Sprintf("%d%%", percent))
	return wrap("pactl", err)
}

func (m *Mixer) Mute() error {
	_, err := m.run("pactl", "set-sink-mute", defaultSink, "1")
	return wrap("pactl", err)
}

func (m *Mixer) Unmute() error {
	_, err := m.run("pactl", "set-sink-mute", defaultSink, "0")
	return wrap("pactl", err)
}

// Backlight nudges screen brightness via brightnessctl.
type Backlight struct {
	step int
	run  Runner
}

func NewBacklight(step int) *Backlight {
	if step <= 0 {
		step = 10
	}

	return &Backlight{step: step, run: execRunner}
}

func (b *Backlight) BrightnessUp() error {
	_, err := b.run("brightnessctl", "set", fmt.Sprintf("%d%%+", b.step))
	return wrap("brightnessctl", err)
}

func (b *Backlight) BrightnessDown() error {
	_, err := b.run("brightnessctl", "set", fmt.Sprintf("%d%%-", b.step))
	return wrap("brightnessctl", err)
}

// PowerCtl asks systemd to change machine power state.
type PowerCtl struct {
	run Runner
}

func NewPowerCtl() *PowerCtl {
	return &PowerCtl{run: execRunner}
}

func (p *PowerCtl) Shutdown() error {
	_, err := p.run("systemctl", "poweroff")
	return wrap("systemctl", err)
}

func (p *PowerCtl) Restart() error {
	_, err := p.run("systemctl", "reboot")
	return wrap("systemctl", err)
}

func (p *PowerCtl) Sleep() error {
	_, err := p.run("systemctl", "suspend")
	return wrap("systemctl", err)
}

// Screen captures the display to a timestamped PNG.
type Screen struct {
	cmd string
	dir string
	run Runner
	now func() time.Time
}

// NewScreen uses cmd (grim by default) to write screenshots into dir.
// An empty dir means the current working directory.
func NewScreen(cmd, dir string) *Screen {
	if cmd == "" {
		cmd = "grim"
	}

	return &Screen{cmd: cmd, dir: dir, run: execRunner, now: time.Now}
}

func (s *Screen) Take() (string, error) {
	name := "screenshot-" + s.now().Format("20060102-150405") + ".png"
	path := filepath.Join(s.dir, name)

	if _, err := s.run(s.cmd, path); err != nil {
		return "", wrap(s.cmd, err)
	}

	return path, nil
}
