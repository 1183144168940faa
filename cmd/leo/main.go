package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/ai"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/assistant"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/audio"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/config"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/files"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/intent"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/ipc"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/jokes"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/notify"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/proxy"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/stt"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/sysctl"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/sysinfo"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/tts"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/wake"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/weather"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/web"
	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/wiki"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "", "Config file path (default leo.yaml)")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address for the speech and LLM APIs")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	secrets := config.LoadSecrets()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded config", "wake_word", cfg.Assistant.WakeWord)

	// Missing keys only disable their feature; the assistant still runs.
	if secrets.OpenAIKey == "" {
		log.Warn("OPENAI_API_KEY not set, questions for the AI will be refused")
	}
	if secrets.DeepgramKey == "" {
		log.Warn("DEEPGRAM_API_KEY not set, Deepgram speech will be refused")
	}

	var apiClient *http.Client
	if *proxyAddr != "" {
		apiClient, err = proxy.NewSocksClient(*proxyAddr, 0)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	webClient := &http.Client{Timeout: cfg.Web.Timeout}
	if apiClient != nil {
		webClient.Transport = apiClient.Transport
	}

	rec := audio.NewRecorder(audio.RecorderConfig{
		SilenceRMS:   cfg.Audio.SilenceRMS,
		SilenceHold:  cfg.Audio.SilenceHold,
		MaxUtterance: cfg.Audio.MaxUtterance,
		DumpDir:      cfg.Audio.DumpDir,
	})
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	if err := rec.CheckInput(); err != nil {
		log.Error("No capture device", "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded recorder")

	engine, err := buildSTT(cfg, secrets)
	if err != nil {
		log.Error("Failed to init speech recognition", "engine", cfg.STT.Engine, "err", err)
		os.Exit(1)
	}
	defer engine.Close()

	log.Debug("Loaded speech recognition", "engine", engine.Name())

	player := audio.NewPlayer()
	voice := buildVoice(cfg, secrets, apiClient, player)

	var ducker assistant.Ducker
	if cfg.TTS.Duck {
		// Own playback shows up under the binary name; espeak plays directly.
		self := []string{strings.ToLower(cfg.Assistant.Name), "espeak"}
		ducker = audio.NewDucker(self, cfg.TTS.DuckVolume)
	}

	ann := notify.NewAnnouncer(cfg.Assistant.Name, cfg.Notify.Desktop)

	disp := intent.NewDispatcher(intent.Skills{
		Web:     web.NewOpener(),
		Wiki:    wiki.NewClient(webClient),
		Weather: weather.NewClient(webClient),
		Jokes:   jokes.NewTeller(),
		Audio:   sysctl.NewMixer(cfg.System.VolumeStep),
		Display: sysctl.NewBacklight(cfg.System.BrightnessStep),
		Shot:    sysctl.NewScreen(cfg.System.ScreenshotCmd, cfg.System.ScreenshotDir),
		Power:   sysctl.NewPowerCtl(),
		Net:     sysinfo.NewProbe(),
		Stats:   sysinfo.NewMonitor(),
		Files:   files.NewIndex(cfg.Files.Roots, cfg.Files.MaxResults),
		Oracle:  ai.New(cfg.Assistant.Name, secrets.OpenAIKey, cfg.LLM.Model, cfg.LLM.Timeout, apiClient),
	})

	a := assistant.New(assistant.Config{
		Name:          cfg.Assistant.Name,
		CommandWindow: cfg.Assistant.CommandWindow,
		Chime:         cfg.Notify.Chime,
	}, assistant.Deps{
		Gate:       wake.NewGate(cfg.Assistant.WakeWord),
		Dispatcher: disp,
		Listener:   rec,
		Engine:     engine,
		Voice:      voice,
		Announcer:  ann,
		Ducker:     ducker,
		Chimer:     player,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := ipc.StartServer(cfg.IPC.Socket, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "trigger":
			a.Trigger()
		case "say":
			a.Say(msg.Arg)
		case "stop":
			stop()
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer srv.Close()

	log.Info("Boot up - successful")

	if err := a.Run(ctx); err != nil {
		log.Error("Assistant stopped", "err", err)
		os.Exit(1)
	}
}

func buildSTT(cfg *config.Config, secrets config.Secrets) (stt.Engine, error) {
	switch cfg.STT.Engine {
	case "whisper":
		return stt.NewWhisper(cfg.STT.Model, cfg.STT.Language, cfg.STT.Threads)
	case "deepgram":
		return stt.NewDeepgram(secrets.DeepgramKey, cfg.STT.Language)
	default:
		return nil, fmt.Errorf("unknown stt engine %q", cfg.STT.Engine)
	}
}

// buildVoice assembles the speech chain. Deepgram synthesis falls back
// to espeak; a Speaker with no voices means text-only output.
func buildVoice(cfg *config.Config, secrets config.Secrets, hc *http.Client, out tts.Player) tts.Voice {
	switch cfg.TTS.Engine {
	case "deepgram":
		aura := tts.NewAura(secrets.DeepgramKey, tts.AuraConfig{
			Model:   cfg.TTS.Model,
			Voice:   cfg.TTS.Voice,
			Format:  cfg.TTS.Format,
			Timeout: cfg.TTS.Timeout,
		}, hc, out)
		return tts.NewSpeaker(aura, tts.NewEspeak(cfg.TTS.EspeakLang))
	case "espeak":
		return tts.NewSpeaker(tts.NewEspeak(cfg.TTS.EspeakLang))
	default:
		return tts.NewSpeaker()
	}
}
