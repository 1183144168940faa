package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *voice, const char *text)
{
	if (!text)
	{ return -1; }

	espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
	espeak_SetVoiceByName(voice);

	espeak_Synth(text, strlen(text) + 1, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"
)

// Espeak is the offline fallback voice. It needs no network and no
// API key, only libespeak-ng on the host.
type Espeak struct {
	voice string
}

func NewEspeak(voice string) *Espeak {
	if voice == "" {
		voice = "en"
	}

	return &Espeak{voice: voice}
}

func (e *Espeak) Name() string { return "espeak" }

// Say blocks until playback finishes. Synchronous playback cannot be
// cancelled mid-utterance, so ctx only gates the call itself.
func (e *Espeak) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cvoice := C.CString(e.voice)
	defer C.free(unsafe.Pointer(cvoice))

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	if rc := C.espeak_say(cvoice, ctext); rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}
