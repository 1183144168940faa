package tts

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/pkg/audioconv"
)

type stubVoice struct {
	name  string
	err   error
	calls int
}

func (v *stubVoice) Name() string { return v.name }

func (v *stubVoice) Say(ctx context.Context, text string) error {
	v.calls++
	return v.err
}

func TestSpeakerFallsThrough(t *testing.T) {
	broken := &stubVoice{name: "broken", err: errors.New("boom")}
	working := &stubVoice{name: "working"}

	s := NewSpeaker(broken, working)

	if err := s.Say(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if broken.calls != 1 || working.calls != 1 {
		t.Errorf("calls = %d, %d", broken.calls, working.calls)
	}
}

func TestSpeakerStopsAtFirstSuccess(t *testing.T) {
	first := &stubVoice{name: "first"}
	second := &stubVoice{name: "second"}

	s := NewSpeaker(first, second)

	if err := s.Say(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if second.calls != 0 {
		t.Error("second voice should not be tried")
	}
}

func TestSpeakerAllFail(t *testing.T) {
	s := NewSpeaker(&stubVoice{name: "a", err: errors.New("a")}, &stubVoice{name: "b", err: errors.New("b")})

	if err := s.Say(context.Background(), "hello"); err == nil {
		t.Fatal("want error when every voice fails")
	}
}

func TestSpeakerSilentModes(t *testing.T) {
	v := &stubVoice{name: "v"}

	if err := NewSpeaker(v).Say(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if v.calls != 0 {
		t.Error("empty text should not reach a voice")
	}

	if err := NewSpeaker().Say(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
}

type fakePlayer struct {
	rate    int
	samples int
}

func (p *fakePlayer) Play(ctx context.Context, pcm []float32, rate int) error {
	p.rate = rate
	p.samples = len(pcm)
	return nil
}

func wavFixture(t *testing.T, samples int) []byte {
	t.Helper()

	pcm := make([]float32, samples)
	for i := range pcm {
		pcm[i] = float32(0.4 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}

	path := filepath.Join(t.TempDir(), "fixture.wav")
	if err := audioconv.WriteWAV(path, pcm, 16000); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestAuraSay(t *testing.T) {
	fixture := wavFixture(t, 1600)

	var gotAuth, gotAccept, gotText string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")

		q := r.URL.Query()
		gotQuery = map[string]string{
			"model":  q.Get("model"),
			"voice":  q.Get("voice"),
			"format": q.Get("format"),
		}

		var body struct {
			Text string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotText = body.Text

		w.Header().Set("Content-Type", "audio/wav")
		w.Write(fixture)
	}))
	defer srv.Close()

	player := &fakePlayer{}
	a := &Aura{
		key:     "k",
		baseURL: srv.URL,
		model:   "aura-2",
		voice:   "alloy",
		format:  "wav",
		hc:      srv.Client(),
		out:     player,
	}

	if err := a.Say(context.Background(), "hello there"); err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Token k" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotAccept != "audio/wav" {
		t.Errorf("accept = %q", gotAccept)
	}
	if gotQuery["model"] != "aura-2" || gotQuery["voice"] != "alloy" || gotQuery["format"] != "wav" {
		t.Errorf("query = %v", gotQuery)
	}
	if gotText != "hello there" {
		t.Errorf("text = %q", gotText)
	}

	if player.rate != audioconv.Rate {
		t.Errorf("rate = %d", player.rate)
	}
	if player.samples != 1600 {
		t.Errorf("samples = %d", player.samples)
	}
}

func TestAuraWithoutKey(t *testing.T) {
	a := NewAura("", AuraConfig{}, nil, &fakePlayer{})

	if err := a.Say(context.Background(), "hello"); err == nil {
		t.Fatal("want error without key")
	}
}

func TestAuraServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err_code":"INVALID_AUTH"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := &Aura{
		key:     "bad",
		baseURL: srv.URL,
		model:   "aura-2",
		voice:   "alloy",
		format:  "wav",
		hc:      srv.Client(),
		out:     &fakePlayer{},
	}

	err := a.Say(context.Background(), "hello")
	if err == nil {
		t.Fatal("want error on 401")
	}
}

func TestAuraTimeoutCutsSlowRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a := &Aura{
		key:     "k",
		baseURL: srv.URL,
		model:   "aura-2",
		voice:   "alloy",
		format:  "wav",
		timeout: 30 * time.Millisecond,
		hc:      srv.Client(), // no client-level timeout of its own
		out:     &fakePlayer{},
	}

	start := time.Now()
	err := a.Say(context.Background(), "hello")
	if err == nil {
		t.Fatal("want error when synthesis exceeds the timeout")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("request ran %v before failing", elapsed)
	}
}

func TestNewAuraKeepsConfiguredTimeout(t *testing.T) {
	a := NewAura("k", AuraConfig{Timeout: 5 * time.Second}, http.DefaultClient, &fakePlayer{})
	if a.timeout != 5*time.Second {
		t.Errorf("timeout = %v", a.timeout)
	}

	a = NewAura("k", AuraConfig{}, nil, &fakePlayer{})
	if a.timeout != 60*time.Second {
		t.Errorf("default timeout = %v", a.timeout)
	}
}
