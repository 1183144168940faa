package stt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/pkg/audioconv"
)

const deepgramListenURL = "wss://api.deepgram.com/v1/listen"

// Deepgram streams an utterance to Deepgram's hosted recognizer over a
// websocket and collects the final transcript.
type Deepgram struct {
	key      string
	url      string
	language string
}

func NewDeepgram(key, language string) (*Deepgram, error) {
	if key == "" {
		return nil, errors.New("deepgram: DEEPGRAM_API_KEY is not set")
	}
	if language == "" {
		language = "en-US"
	}

	return &Deepgram{key: key, url: deepgramListenURL, language: language}, nil
}

func (d *Deepgram) Name() string { return "deepgram" }

func (d *Deepgram) Close() error { return nil }

type listenMessage struct {
	Type        string `json:"type"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`
	Channel     struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (d *Deepgram) Transcribe(ctx context.Context, pcm []float32) (string, error) {
	if len(pcm) == 0 {
		return "", ErrNoSpeech
	}

	u := fmt.Sprintf("%s?encoding=linear16&sample_rate=%d&channels=1&punctuate=true&language=%s",
		d.url, audioconv.Rate, d.language)

	header := http.Header{}
	header.Set("Authorization", "Token "+d.key)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, resp, err := dialer.DialContext(ctx, u, header)
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("deepgram dial: %w (status %d)", err, resp.StatusCode)
		}
		return "", fmt.Errorf("deepgram dial: %w", err)
	}
	defer conn.Close()

	audio := audioconv.PCM16Bytes(pcm)

	// 100 ms of linear16 per frame. The endpoint accepts prerecorded
	// audio faster than realtime, so no pacing between frames.
	chunk := audioconv.Rate * 2 / 10

	for i := 0; i < len(audio); i += chunk {
		end := i + chunk
		if end > len(audio) {
			end = len(audio)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, audio[i:end]); err != nil {
			return "", fmt.Errorf("deepgram send: %w", err)
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type": "CloseStream"}`)); err != nil {
		return "", fmt.Errorf("deepgram close stream: %w", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	conn.SetReadDeadline(deadline)

	var parts []string

collect:
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				break
			}
			return "", fmt.Errorf("deepgram read: %w", err)
		}

		var msg listenMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warn("Unparseable Deepgram message", "err", err)
			continue
		}

		switch msg.Type {
		case "Results":
			if !msg.IsFinal && !msg.SpeechFinal {
				continue
			}
			if len(msg.Channel.Alternatives) == 0 {
				continue
			}
			if t := strings.TrimSpace(msg.Channel.Alternatives[0].Transcript); t != "" {
				parts = append(parts, t)
			}
		case "Metadata":
			// Sent once after CloseStream; the transcript is complete.
			break collect
		}
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", ErrNoSpeech
	}

	log.Debug("Deepgram transcript", "text", text)

	return text, nil
}
