package intent

import (
	"context"
	"errors"
)

// ErrUnavailable marks a capability the host cannot provide (missing binary,
// no display, no backend configured). Handlers turn it into a "not
// supported" response instead of a generic failure.
var ErrUnavailable = errors.New("capability unavailable")

// ErrNotConfigured marks a client whose API key is absent. Handlers answer
// with a configuration hint instead of failing silently.
var ErrNotConfigured = errors.New("api key not configured")

// The dispatcher talks to every feature area through a narrow interface so
// hardware, network and OS collaborators can be swapped for fakes.

type Web interface {
	OpenSite(name string) error
	Search(term string) error
	Play(song string) error
}

type Encyclopedia interface {
	Summary(ctx context.Context, topic string) (string, error)
}

type WeatherService interface {
	Current(ctx context.Context, city string) (string, error)
}

type JokeTeller interface {
	Joke() string
}

type AudioControl interface {
	VolumeUp() error
	VolumeDown() error
	Mute() error
	Unmute() error
	SetVolume(percent int) error
}

type DisplayControl interface {
	BrightnessUp() error
	BrightnessDown() error
}

type Screenshotter interface {
	Take() (path string, err error)
}

type Power interface {
	Shutdown() error
	Restart() error
	Sleep() error
}

type Net interface {
	Online() bool
}

type Stats interface {
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
}

type FileIndex interface {
	Search(term string) ([]string, error)
	Open(path string) error
}

type Oracle interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Skills bundles every collaborator the dispatcher can invoke. Nil fields
// are treated as unavailable capabilities.
type Skills struct {
	Web     Web
	Wiki    Encyclopedia
	Weather WeatherService
	Jokes   JokeTeller
	Audio   AudioControl
	Display DisplayControl
	Shot    Screenshotter
	Power   Power
	Net     Net
	Stats   Stats
	Files   FileIndex
	Oracle  Oracle
}
