package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full daemon configuration, loaded from defaults, an optional
// leo.yaml and LEO_* environment overrides. Secrets never live here; see
// Secrets.
type Config struct {
	Assistant Assistant `mapstructure:"assistant"`
	Audio     Audio     `mapstructure:"audio"`
	STT       STT       `mapstructure:"stt"`
	TTS       TTS       `mapstructure:"tts"`
	LLM       LLM       `mapstructure:"llm"`
	Files     Files     `mapstructure:"files"`
	Web       Web       `mapstructure:"web"`
	System    System    `mapstructure:"system"`
	Notify    Notify    `mapstructure:"notify"`
	IPC       IPC       `mapstructure:"ipc"`
}

type Assistant struct {
	Name          string        `mapstructure:"name"`
	WakeWord      string        `mapstructure:"wake_word"`
	CommandWindow time.Duration `mapstructure:"command_window"`
}

type Audio struct {
	SilenceRMS   float64       `mapstructure:"silence_rms"`
	SilenceHold  time.Duration `mapstructure:"silence_hold"`
	MaxUtterance time.Duration `mapstructure:"max_utterance"`
	DumpDir      string        `mapstructure:"dump_dir"`
}

type STT struct {
	Engine   string `mapstructure:"engine"` // "whisper" or "deepgram"
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
	Threads  int    `mapstructure:"threads"`
}

type TTS struct {
	Engine     string        `mapstructure:"engine"` // "deepgram", "espeak" or "off"
	Model      string        `mapstructure:"model"`
	Voice      string        `mapstructure:"voice"`
	Format     string        `mapstructure:"format"` // "wav" or "mp3"
	Timeout    time.Duration `mapstructure:"timeout"`
	EspeakLang string        `mapstructure:"espeak_lang"`
	Duck       bool          `mapstructure:"duck"`
	DuckVolume int           `mapstructure:"duck_volume"`
}

type LLM struct {
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Files struct {
	Roots      []string `mapstructure:"roots"`
	MaxResults int      `mapstructure:"max_results"`
}

type Web struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type System struct {
	VolumeStep     int    `mapstructure:"volume_step"`
	BrightnessStep int    `mapstructure:"brightness_step"`
	ScreenshotCmd  string `mapstructure:"screenshot_cmd"`
	ScreenshotDir  string `mapstructure:"screenshot_dir"`
}

type Notify struct {
	Desktop bool `mapstructure:"desktop"`
	Chime   bool `mapstructure:"chime"`
}

type IPC struct {
	Socket string `mapstructure:"socket"`
}

// Secrets holds the API keys, read from the environment only. Empty values
// are legal at startup; the owning feature reports a configuration error
// when it is actually used.
type Secrets struct {
	OpenAIKey   string
	DeepgramKey string
}

func LoadSecrets() Secrets {
	return Secrets{
		OpenAIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		DeepgramKey: strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
	}
}

// Load reads the configuration. An explicit path must exist; otherwise
// leo.yaml is searched in the working directory and ~/.config/leo, and its
// absence is fine.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("leo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/leo")
	}

	v.SetEnvPrefix("LEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.Files.Roots) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home for file search: %w", err)
		}
		cfg.Files.Roots = []string{home}
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Assistant.WakeWord = strings.ToLower(strings.TrimSpace(c.Assistant.WakeWord))
	if c.Assistant.WakeWord == "" {
		return errors.New("assistant.wake_word must not be empty")
	}
	switch c.STT.Engine {
	case "whisper", "deepgram":
	default:
		return fmt.Errorf("stt.engine %q (want whisper or deepgram)", c.STT.Engine)
	}
	switch c.TTS.Engine {
	case "deepgram", "espeak", "off":
	default:
		return fmt.Errorf("tts.engine %q (want deepgram, espeak or off)", c.TTS.Engine)
	}
	switch c.TTS.Format {
	case "wav", "mp3":
	default:
		return fmt.Errorf("tts.format %q (want wav or mp3)", c.TTS.Format)
	}
	if c.Files.MaxResults <= 0 {
		return errors.New("files.max_results must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("assistant.name", "Leo")
	v.SetDefault("assistant.wake_word", "leo")
	v.SetDefault("assistant.command_window", "8s")

	v.SetDefault("audio.silence_rms", 0.015)
	v.SetDefault("audio.silence_hold", "600ms")
	v.SetDefault("audio.max_utterance", "10s")
	v.SetDefault("audio.dump_dir", "")

	v.SetDefault("stt.engine", "whisper")
	v.SetDefault("stt.model", "models/ggml-base.en.bin")
	v.SetDefault("stt.language", "en")
	v.SetDefault("stt.threads", 4)

	v.SetDefault("tts.engine", "deepgram")
	v.SetDefault("tts.model", "aura-2")
	v.SetDefault("tts.voice", "alloy")
	v.SetDefault("tts.format", "wav")
	v.SetDefault("tts.timeout", "60s")
	v.SetDefault("tts.espeak_lang", "en")
	v.SetDefault("tts.duck", true)
	v.SetDefault("tts.duck_volume", 35)

	v.SetDefault("llm.model", "gpt-5-nano")
	v.SetDefault("llm.timeout", "30s")

	v.SetDefault("files.roots", []string{})
	v.SetDefault("files.max_results", 20)

	v.SetDefault("web.timeout", "8s")

	v.SetDefault("system.volume_step", 5)
	v.SetDefault("system.brightness_step", 10)
	v.SetDefault("system.screenshot_cmd", "grim")
	v.SetDefault("system.screenshot_dir", "")

	v.SetDefault("notify.desktop", true)
	v.SetDefault("notify.chime", true)

	v.SetDefault("ipc.socket", "/tmp/leo.sock")
}
