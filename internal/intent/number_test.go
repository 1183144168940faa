package intent

import "testing"

func TestParseSpokenNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", -1},
		{"   ", -1},
		{"banana", -1},
		{"2", 2},
		{"number 7", 7},
		{"open 3 please", 3},
		{"one", 1},
		{"first", 1},
		{"two", 2},
		{"second", 2},
		{"to", 2},
		{"too", 2},
		{"three", 3},
		{"for", 4},
		{"ate", 8},
		{"ten", 10},
		{"tenth", 10},
		{"zero", 0},
		{"oh", 0},
		{"no", 0},
		{"none", 0},
		// digits take precedence over word forms
		{"one 3", 3},
		{"the second one, number 5", 5},
	}
	for _, tc := range cases {
		if got := ParseSpokenNumber(tc.in); got != tc.want {
			t.Errorf("ParseSpokenNumber(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestIsCancel(t *testing.T) {
	for _, s := range []string{"cancel", "never mind", "nevermind", "forget it"} {
		if !isCancel(s) {
			t.Errorf("isCancel(%q) = false", s)
		}
	}
	for _, s := range []string{"", "2", "open it"} {
		if isCancel(s) {
			t.Errorf("isCancel(%q) = true", s)
		}
	}
}
