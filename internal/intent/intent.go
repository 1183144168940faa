package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind labels one recognized command category.
type Kind int

const (
	KindFallback Kind = iota
	KindGreeting
	KindHowAreYou
	KindFarewell
	KindWikipedia
	KindOpenSite
	KindWebSearch
	KindPlayMedia
	KindTimeNow
	KindDateToday
	KindJoke
	KindWeather
	KindVolumeUp
	KindVolumeDown
	KindMute
	KindUnmute
	KindVolumeSet
	KindBrightnessUp
	KindBrightnessDown
	KindScreenshot
	KindShutdown
	KindRestart
	KindSleep
	KindNetCheck
	KindCPUStat
	KindRAMStat
	KindFileSearch
)

var kindNames = map[Kind]string{
	KindFallback:       "fallback",
	KindGreeting:       "greeting",
	KindHowAreYou:      "how_are_you",
	KindFarewell:       "farewell",
	KindWikipedia:      "wikipedia",
	KindOpenSite:       "open_site",
	KindWebSearch:      "web_search",
	KindPlayMedia:      "play_media",
	KindTimeNow:        "time",
	KindDateToday:      "date",
	KindJoke:           "joke",
	KindWeather:        "weather",
	KindVolumeUp:       "volume_up",
	KindVolumeDown:     "volume_down",
	KindMute:           "mute",
	KindUnmute:         "unmute",
	KindVolumeSet:      "volume_set",
	KindBrightnessUp:   "brightness_up",
	KindBrightnessDown: "brightness_down",
	KindScreenshot:     "screenshot",
	KindShutdown:       "shutdown",
	KindRestart:        "restart",
	KindSleep:          "sleep",
	KindNetCheck:       "net_check",
	KindCPUStat:        "cpu",
	KindRAMStat:        "ram",
	KindFileSearch:     "file_search",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Command is one parsed utterance: the matched kind plus whatever argument
// its rule extracted (a search term, a city, a volume level in N).
type Command struct {
	Kind Kind
	Arg  string
	N    int
}

type rule struct {
	kind  Kind
	match func(q string) (arg string, n int, ok bool)
}

var (
	volUpRe   = regexp.MustCompile(`\bvolume up\b`)
	volDownRe = regexp.MustCompile(`\bvolume down\b`)
	volSetRe  = regexp.MustCompile(`(?:set\s*)?volume\s*(?:to\s*)?(\d{1,3})`)
	weatherRe = regexp.MustCompile(`weather (?:in|of)\s+(.+)`)
)

var fileKeywords = []string{
	"find file", "search file", "fetch file", "open file",
	"find", "search", "fetch", "where", "locate", "show file", "get file",
}

// rules is the routing table. Order is load-bearing: the first match wins,
// so narrower predicates sit above broader ones and the table ends with no
// entry at all (Parse falls back to KindFallback).
var rules = []rule{
	{KindGreeting, exact("hello", "hi", "hey", "good morning", "good afternoon", "good evening")},
	{KindHowAreYou, exact("how are you", "how are you doing", "what's up", "whats up")},
	{KindFarewell, exact("bye", "exit", "quit", "goodbye", "stop")},
	{KindWikipedia, func(q string) (string, int, bool) {
		if !strings.Contains(q, "wikipedia") {
			return "", 0, false
		}
		topic := strings.ReplaceAll(q, "search wikipedia for", "")
		topic = strings.ReplaceAll(topic, "wikipedia", "")
		return strings.TrimSpace(topic), 0, true
	}},
	{KindOpenSite, func(q string) (string, int, bool) {
		switch {
		case strings.Contains(q, "open youtube"):
			return "youtube", 0, true
		case strings.Contains(q, "open google"):
			return "google", 0, true
		}
		return "", 0, false
	}},
	{KindWebSearch, prefixArg("search ")},
	{KindPlayMedia, prefixArg("play ")},
	{KindTimeNow, contains("time")},
	{KindDateToday, contains("date")},
	{KindJoke, contains("joke")},
	{KindWeather, func(q string) (string, int, bool) {
		if !strings.Contains(q, "weather") {
			return "", 0, false
		}
		if m := weatherRe.FindStringSubmatch(q); m != nil {
			return strings.TrimSpace(m[1]), 0, true
		}
		return "", 0, true
	}},
	{KindVolumeUp, regex(volUpRe)},
	{KindVolumeDown, regex(volDownRe)},
	{KindMute, func(q string) (string, int, bool) {
		return "", 0, strings.Contains(q, "mute") && !strings.Contains(q, "unmute")
	}},
	{KindUnmute, contains("unmute")},
	{KindVolumeSet, func(q string) (string, int, bool) {
		m := volSetRe.FindStringSubmatch(q)
		if m == nil {
			return "", 0, false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", 0, false
		}
		return "", n, true
	}},
	{KindBrightnessUp, contains("brightness up")},
	{KindBrightnessDown, contains("brightness down")},
	{KindScreenshot, contains("screenshot")},
	{KindShutdown, contains("shutdown")},
	{KindRestart, contains("restart")},
	{KindSleep, contains("sleep")},
	{KindNetCheck, contains("internet")},
	{KindCPUStat, contains("cpu")},
	{KindRAMStat, contains("ram")},
	{KindFileSearch, func(q string) (string, int, bool) {
		hit := false
		for _, k := range fileKeywords {
			if strings.Contains(q, k) {
				hit = true
				break
			}
		}
		if !hit {
			return "", 0, false
		}
		term := q
		for _, k := range fileKeywords {
			term = strings.ReplaceAll(term, k, "")
		}
		return strings.TrimSpace(term), 0, true
	}},
}

// Parse normalizes q and matches it against the rule table. Unmatched text
// becomes a KindFallback command carrying the full query.
func Parse(q string) Command {
	q = strings.ToLower(strings.TrimSpace(q))
	for _, r := range rules {
		if arg, n, ok := r.match(q); ok {
			return Command{Kind: r.kind, Arg: arg, N: n}
		}
	}
	return Command{Kind: KindFallback, Arg: q}
}

func exact(set ...string) func(string) (string, int, bool) {
	return func(q string) (string, int, bool) {
		for _, s := range set {
			if q == s {
				return "", 0, true
			}
		}
		return "", 0, false
	}
}

func contains(sub string) func(string) (string, int, bool) {
	return func(q string) (string, int, bool) {
		return "", 0, strings.Contains(q, sub)
	}
}

func prefixArg(prefix string) func(string) (string, int, bool) {
	return func(q string) (string, int, bool) {
		if !strings.HasPrefix(q, prefix) {
			return "", 0, false
		}
		return strings.TrimSpace(strings.TrimPrefix(q, prefix)), 0, true
	}
}

func regex(re *regexp.Regexp) func(string) (string, int, bool) {
	return func(q string) (string, int, bool) {
		return "", 0, re.MatchString(q)
	}
}
