package wake

import "strings"

// Gate filters raw transcripts, passing through only utterances that contain
// the wake word. Matching is a plain case-insensitive substring check, never
// phonetic.
type Gate struct {
	word string
}

func NewGate(word string) *Gate {
	return &Gate{word: strings.ToLower(strings.TrimSpace(word))}
}

func (g *Gate) Word() string { return g.word }

// Hear reports whether the transcript contains the wake word. On a hit it
// returns the lowercased command remainder after the first occurrence; an
// empty remainder means a bare wake word (caller should prompt and listen
// again).
func (g *Gate) Hear(transcript string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(transcript))
	if t == "" || g.word == "" {
		return "", false
	}
	i := strings.Index(t, g.word)
	if i < 0 {
		return "", false
	}
	rest := t[i+len(g.word):]
	rest = strings.TrimLeft(rest, " \t,.!?:;")
	return strings.TrimSpace(rest), true
}
