package stt

import "testing"

func TestNoiseFilter(t *testing.T) {
	drop := []string{"[BLANK_AUDIO]", "[ Silence ]", "(wind blowing)", "(clicking)"}
	for _, s := range drop {
		if !noiseRe.MatchString(s) {
			t.Errorf("%q should be dropped", s)
		}
	}

	keep := []string{"turn the volume up", "[music] hello", "find file (draft)", "ok"}
	for _, s := range keep {
		if noiseRe.MatchString(s) {
			t.Errorf("%q should be kept", s)
		}
	}
}

func TestNewWhisperRequiresModelPath(t *testing.T) {
	if _, err := NewWhisper("", "en", 0); err == nil {
		t.Fatal("want error for empty model path")
	}
}
