package web

import (
	"fmt"
	log "log/slog"
	"net/url"
	"os/exec"
)

var sites = map[string]string{
	"youtube": "https://youtube.com",
	"google":  "https://google.com",
}

// Opener launches the desktop browser for sites, searches and media
// playback. Launches are detached so a slow browser start never stalls the
// dispatch loop.
type Opener struct {
	open func(target string) error
}

func NewOpener() *Opener {
	return &Opener{open: xdgOpen}
}

func (o *Opener) OpenSite(name string) error {
	target, ok := sites[name]
	if !ok {
		return fmt.Errorf("unknown site %q", name)
	}
	return o.open(target)
}

func (o *Opener) Search(term string) error {
	return o.open("https://www.google.com/search?q=" + url.QueryEscape(term))
}

// Play opens a YouTube search for the requested media; the browser lands on
// the result list ready to play.
func (o *Opener) Play(song string) error {
	return o.open("https://www.youtube.com/results?search_query=" + url.QueryEscape(song))
}

func xdgOpen(target string) error {
	cmd := exec.Command("xdg-open", target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("Browser command exited", "err", err)
		}
	}()
	return nil
}
