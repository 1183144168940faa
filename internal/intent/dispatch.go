package intent

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"
)

// Result is the outcome of one dispatched utterance. Text goes to the
// console and notification; Say, when set, overrides it for speech (a file
// list is printed in full but only summarized aloud). AwaitChoice asks the
// caller to route the next utterance straight back here without a wake word.
type Result struct {
	Text        string
	Say         string
	Quit        bool
	AwaitChoice bool
}

// Spoken returns what the voice should read out.
func (r Result) Spoken() string {
	if r.Say != "" {
		return r.Say
	}
	return r.Text
}

// Dispatcher routes parsed commands to skills. It is driven from a single
// goroutine; pending selection state needs no locking.
type Dispatcher struct {
	skills  Skills
	pending []string
	now     func() time.Time
}

func NewDispatcher(s Skills) *Dispatcher {
	return &Dispatcher{skills: s, now: time.Now}
}

// Pending reports whether a file selection awaits a follow-up utterance.
func (d *Dispatcher) Pending() bool { return len(d.pending) > 0 }

// Dispatch handles one utterance and returns the response. A pending file
// selection consumes the utterance first; otherwise it is parsed against the
// rule table and the matched handler runs. Every utterance enters through
// here, so the recover below covers skill calls on all paths, follow-up
// selections included.
func (d *Dispatcher) Dispatch(ctx context.Context, q string) (res Result) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return Result{Text: "I didn't catch that."}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Handler panicked", "utterance", q, "panic", r)
			res = Result{Text: "Sorry, that command failed unexpectedly."}
		}
	}()

	if len(d.pending) > 0 {
		return d.resolveChoice(ctx, q)
	}
	return d.run(ctx, Parse(q))
}

// resolveChoice consumes the utterance after an ambiguous file search.
// Numbers select, zero and cancel words abort, anything else abandons the
// selection and is dispatched as a fresh command.
func (d *Dispatcher) resolveChoice(ctx context.Context, q string) Result {
	pending := d.pending
	d.pending = nil

	if isCancel(q) {
		return Result{Text: "Cancelled. No file opened."}
	}
	n := ParseSpokenNumber(q)
	if n < 0 {
		return d.run(ctx, Parse(q))
	}
	if n == 0 {
		return Result{Text: "Cancelled. No file opened."}
	}
	if n > len(pending) {
		return Result{Text: "Invalid choice. No file opened."}
	}
	path := pending[n-1]
	if err := d.skills.Files.Open(path); err != nil {
		log.Error("Failed to open selected file", "path", path, "err", err)
		return Result{Text: fmt.Sprintf("Failed to open %s.", path)}
	}
	return Result{Text: fmt.Sprintf("Opened: %s", path)}
}

func (d *Dispatcher) run(ctx context.Context, cmd Command) Result {
	switch cmd.Kind {
	case KindGreeting:
		return Result{Text: "Hello! How can I assist you?"}

	case KindHowAreYou:
		return Result{Text: "I'm doing well, thank you! How can I help?"}

	case KindFarewell:
		return Result{Text: "Goodbye!", Quit: true}

	case KindWikipedia:
		if d.skills.Wiki == nil {
			return Result{Text: "Wikipedia lookup is not available."}
		}
		if cmd.Arg == "" {
			return Result{Text: "What should I look up on Wikipedia?"}
		}
		summary, err := d.skills.Wiki.Summary(ctx, cmd.Arg)
		if err != nil {
			log.Warn("Wikipedia lookup failed", "topic", cmd.Arg, "err", err)
			return Result{Text: "Couldn't find that on Wikipedia."}
		}
		return Result{Text: summary}

	case KindOpenSite:
		if d.skills.Web == nil {
			return Result{Text: "Web browsing is not available."}
		}
		if err := d.skills.Web.OpenSite(cmd.Arg); err != nil {
			log.Warn("Failed to open site", "site", cmd.Arg, "err", err)
			return Result{Text: "Couldn't open the browser."}
		}
		return Result{Text: fmt.Sprintf("Opening %s.", siteTitle(cmd.Arg))}

	case KindWebSearch:
		if d.skills.Web == nil {
			return Result{Text: "Web browsing is not available."}
		}
		if cmd.Arg == "" {
			return Result{Text: "What should I search for?"}
		}
		if err := d.skills.Web.Search(cmd.Arg); err != nil {
			log.Warn("Web search failed", "term", cmd.Arg, "err", err)
			return Result{Text: "Couldn't open the browser."}
		}
		return Result{Text: fmt.Sprintf("Searching Google for %s.", cmd.Arg)}

	case KindPlayMedia:
		if d.skills.Web == nil {
			return Result{Text: "Media playback is not available."}
		}
		if cmd.Arg == "" {
			return Result{Text: "What should I play?"}
		}
		if err := d.skills.Web.Play(cmd.Arg); err != nil {
			log.Warn("Playback failed", "song", cmd.Arg, "err", err)
			return Result{Text: "Couldn't play that right now."}
		}
		return Result{Text: fmt.Sprintf("Playing %s.", cmd.Arg)}

	case KindTimeNow:
		return Result{Text: fmt.Sprintf("The time is %s.", d.now().Format("15:04:05"))}

	case KindDateToday:
		return Result{Text: fmt.Sprintf("Today's date is %s.", d.now().Format("January 02, 2006"))}

	case KindJoke:
		if d.skills.Jokes == nil {
			return Result{Text: "I couldn't fetch a joke right now."}
		}
		return Result{Text: d.skills.Jokes.Joke()}

	case KindWeather:
		if d.skills.Weather == nil {
			return Result{Text: "Weather lookup is not available."}
		}
		if cmd.Arg == "" {
			return Result{Text: "Please specify a city."}
		}
		report, err := d.skills.Weather.Current(ctx, cmd.Arg)
		if err != nil {
			log.Warn("Weather lookup failed", "city", cmd.Arg, "err", err)
			return Result{Text: "Couldn't fetch weather details right now."}
		}
		return Result{Text: report}

	case KindVolumeUp:
		return d.audioResult("Volume up.", func(a AudioControl) error { return a.VolumeUp() })

	case KindVolumeDown:
		return d.audioResult("Volume down.", func(a AudioControl) error { return a.VolumeDown() })

	case KindMute:
		return d.audioResult("Volume muted.", func(a AudioControl) error { return a.Mute() })

	case KindUnmute:
		return d.audioResult("Volume unmuted.", func(a AudioControl) error { return a.Unmute() })

	case KindVolumeSet:
		p := cmd.N
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		return d.audioResult(fmt.Sprintf("Volume set to %d%%.", p),
			func(a AudioControl) error { return a.SetVolume(p) })

	case KindBrightnessUp:
		return d.displayResult("Brightness increased.", func(c DisplayControl) error { return c.BrightnessUp() })

	case KindBrightnessDown:
		return d.displayResult("Brightness decreased.", func(c DisplayControl) error { return c.BrightnessDown() })

	case KindScreenshot:
		if d.skills.Shot == nil {
			return Result{Text: "Screenshot failed."}
		}
		path, err := d.skills.Shot.Take()
		if err != nil {
			log.Warn("Screenshot failed", "err", err)
			return Result{Text: "Screenshot failed."}
		}
		return Result{Text: fmt.Sprintf("Screenshot saved to %s", path)}

	case KindShutdown:
		return d.powerResult("Shutting down.", func(p Power) error { return p.Shutdown() })

	case KindRestart:
		return d.powerResult("Restarting.", func(p Power) error { return p.Restart() })

	case KindSleep:
		return d.powerResult("Sleeping now.", func(p Power) error { return p.Sleep() })

	case KindNetCheck:
		if d.skills.Net == nil {
			return Result{Text: "Not connected."}
		}
		if d.skills.Net.Online() {
			return Result{Text: "Connected."}
		}
		return Result{Text: "Not connected."}

	case KindCPUStat:
		if d.skills.Stats == nil {
			return Result{Text: "System stats are not available."}
		}
		v, err := d.skills.Stats.CPUPercent(ctx)
		if err != nil {
			log.Warn("CPU stat failed", "err", err)
			return Result{Text: "Couldn't read CPU usage."}
		}
		return Result{Text: fmt.Sprintf("CPU usage: %.1f%%", v)}

	case KindRAMStat:
		if d.skills.Stats == nil {
			return Result{Text: "System stats are not available."}
		}
		v, err := d.skills.Stats.MemoryPercent(ctx)
		if err != nil {
			log.Warn("RAM stat failed", "err", err)
			return Result{Text: "Couldn't read RAM usage."}
		}
		return Result{Text: fmt.Sprintf("RAM usage: %.1f%%", v)}

	case KindFileSearch:
		return d.fileSearch(cmd.Arg)

	default:
		return d.fallback(ctx, cmd.Arg)
	}
}

func (d *Dispatcher) fileSearch(term string) Result {
	if d.skills.Files == nil {
		return Result{Text: "File search is not available."}
	}
	if len(term) < 2 {
		return Result{Text: "Please specify a file name, keyword, or part of it to search."}
	}
	matches, err := d.skills.Files.Search(term)
	if err != nil {
		log.Warn("File search failed", "term", term, "err", err)
		return Result{Text: "File search failed."}
	}
	switch len(matches) {
	case 0:
		return Result{Text: fmt.Sprintf("No files found matching '%s'.", term)}
	case 1:
		path := matches[0]
		if err := d.skills.Files.Open(path); err != nil {
			log.Warn("Failed to open found file", "path", path, "err", err)
			return Result{Text: fmt.Sprintf("Found %s but couldn't open it.", path)}
		}
		return Result{Text: fmt.Sprintf("Found and opening: %s", path)}
	default:
		d.pending = append([]string(nil), matches...)
		var b strings.Builder
		b.WriteString("Files found:")
		for i, p := range matches {
			fmt.Fprintf(&b, "\n%d. %s", i+1, p)
		}
		return Result{
			Text:        b.String(),
			Say:         fmt.Sprintf("I found %d files. Tell me the number of the file to open, or say zero to cancel.", len(matches)),
			AwaitChoice: true,
		}
	}
}

func (d *Dispatcher) fallback(ctx context.Context, query string) Result {
	if d.skills.Oracle == nil {
		return Result{Text: "I don't know how to help with that yet."}
	}
	answer, err := d.skills.Oracle.Ask(ctx, query)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return Result{Text: "The AI fallback is not configured. Please set the OPENAI_API_KEY environment variable."}
		}
		log.Warn("AI fallback failed", "err", err)
		return Result{Text: "The AI service didn't respond."}
	}
	return Result{Text: answer}
}

func (d *Dispatcher) audioResult(ack string, call func(AudioControl) error) Result {
	if d.skills.Audio == nil {
		return Result{Text: "Volume control not supported."}
	}
	if err := call(d.skills.Audio); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return Result{Text: "Volume control not supported."}
		}
		log.Warn("Volume control failed", "err", err)
		return Result{Text: "Volume control failed."}
	}
	return Result{Text: ack}
}

func (d *Dispatcher) displayResult(ack string, call func(DisplayControl) error) Result {
	if d.skills.Display == nil {
		return Result{Text: "Brightness control failed."}
	}
	if err := call(d.skills.Display); err != nil {
		log.Warn("Brightness control failed", "err", err)
		return Result{Text: "Brightness control failed."}
	}
	return Result{Text: ack}
}

func (d *Dispatcher) powerResult(ack string, call func(Power) error) Result {
	if d.skills.Power == nil {
		return Result{Text: "Power control not supported."}
	}
	if err := call(d.skills.Power); err != nil {
		log.Warn("Power command failed", "err", err)
		return Result{Text: "Power command failed."}
	}
	return Result{Text: ack}
}

func siteTitle(name string) string {
	switch name {
	case "youtube":
		return "YouTube"
	case "google":
		return "Google"
	}
	return name
}
