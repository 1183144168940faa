// Package notify mirrors every spoken reply to the console and the
// desktop notification area.
package notify

import (
	"fmt"
	"io"
	log "log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gen2brain/beeep"
)

// Announcer prints replies as a small ASCII table and raises a desktop
// toast. The toast is best-effort; a headless session only loses it.
type Announcer struct {
	name    string
	desktop bool
	out     io.Writer
	now     func() time.Time
	toast   func(title, message string) error
}

func NewAnnouncer(name string, desktop bool) *Announcer {
	if name == "" {
		name = "Leo"
	}

	return &Announcer{
		name:    name,
		desktop: desktop,
		out:     os.Stdout,
		now:     time.Now,
		toast: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Announce renders one exchange. query may be empty for unprompted
// lines like the wake acknowledgement.
func (a *Announcer) Announce(query, answer string) {
	if answer == "" {
		return
	}

	if query != "" {
		fmt.Fprintf(a.out, "User: %s\n", query)
	}
	fmt.Fprintf(a.out, "%s: %s\n", a.name, answer)
	fmt.Fprintf(a.out, "\n%s\n\n", a.table(answer))

	if !a.desktop {
		return
	}

	now := a.now()
	title := strings.ToUpper(a.name) + " – Reply"
	body := fmt.Sprintf("Time: %s\nDate: %s\n\n%s",
		now.Format("15:04:05"), now.Format("January 02, 2006"), answer)

	if err := a.toast(title, body); err != nil {
		log.Debug("Toast failed", "err", err)
	}
}

func (a *Announcer) table(answer string) string {
	now := a.now()

	oneline := strings.ReplaceAll(strings.TrimSpace(answer), "\n", " ")
	if r := []rune(oneline); len(r) > 220 {
		oneline = string(r[:217]) + "..."
	}

	rows := [][2]string{
		{"Time", now.Format("15:04:05")},
		{"Date", now.Format("January 02, 2006")},
		{"Answer", oneline},
	}

	keyW, valW := 0, 0
	for _, r := range rows {
		if n := utf8.RuneCountInString(r[0]); n > keyW {
			keyW = n
		}
		if n := utf8.RuneCountInString(r[1]); n > valW {
			valW = n
		}
	}

	border := "+-" + strings.Repeat("-", keyW) + "-+-" + strings.Repeat("-", valW) + "-+"

	var b strings.Builder
	b.WriteString(border)
	for _, r := range rows {
		b.WriteString("\n| " + pad(r[0], keyW) + " | " + pad(r[1], valW) + " |")
	}
	b.WriteString("\n" + border)

	return b.String()
}

// pad right-pads by rune count so multi-byte text keeps columns aligned.
func pad(s string, w int) string {
	if n := utf8.RuneCountInString(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
