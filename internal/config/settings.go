package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FLAPFORGE_DB_PATH.
const EnvPrefix = "FLAPFORGE"

// Settings are the application-level knobs shared by every frontend:
// where things live on disk and how to reach the generation service.
type Settings struct {
	DBPath     string         `mapstructure:"db_path"`
	AssetsDir  string         `mapstructure:"assets_dir"`
	LogFile    string         `mapstructure:"log_file"`
	LogLevel   string         `mapstructure:"log_level"`
	TuningFile string         `mapstructure:"tuning_file"`
	Difficulty string         `mapstructure:"difficulty"`
	Audio      bool           `mapstructure:"audio"`
	Player     string         `mapstructure:"player"`
	GenAI      GenAISettings  `mapstructure:"genai"`
	Server     ServerSettings `mapstructure:"server"`
}

// GenAISettings configure the asset generation client.
type GenAISettings struct {
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	ImageModel  string        `mapstructure:"image_model"`
	SpeechModel string        `mapstructure:"speech_model"`
	Voice       string        `mapstructure:"voice"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ServerSettings configure the SSH server.
type ServerSettings struct {
	Addr        string        `mapstructure:"addr"`
	HostKeyPath string        `mapstructure:"host_key_path"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// setDefaults registers every key so env overrides apply even without a
// settings file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "~/"+HomeDirName+"/scores.db")
	v.SetDefault("assets_dir", "~/"+HomeDirName+"/assets")
	v.SetDefault("log_file", "~/"+HomeDirName+"/flapforge.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("tuning_file", "")
	v.SetDefault("difficulty", string(DifficultyFixed))
	v.SetDefault("audio", true)
	v.SetDefault("player", defaultPlayer())

	v.SetDefault("genai.endpoint", "https://generativelanguage.googleapis.com")
	v.SetDefault("genai.api_key", "")
	v.SetDefault("genai.image_model", "gemini-2.5-flash-image")
	v.SetDefault("genai.speech_model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("genai.voice", "Kore")
	v.SetDefault("genai.timeout", "90s")

	v.SetDefault("server.addr", ":2222")
	v.SetDefault("server.host_key_path", "~/"+HomeDirName+"/ssh_host_key")
	v.SetDefault("server.idle_timeout", "30m")
}

// LoadSettings reads flapforge.yaml (explicit path, ~/.flapforge or the
// working directory) and applies FLAPFORGE_* environment overrides on top
// of the defaults. A missing settings file is not an error; an explicit
// path that cannot be read is. Paths beginning with ~ are expanded.
func LoadSettings(file string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("genai.api_key", EnvPrefix+"_GENAI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Settings{}, fmt.Errorf("config: bind api key env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(ExpandHome(file))
	} else {
		v.SetConfigName("flapforge")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, HomeDirName))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("config: cannot read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config: cannot decode settings: %w", err)
	}
	s.DBPath = ExpandHome(s.DBPath)
	s.AssetsDir = ExpandHome(s.AssetsDir)
	s.LogFile = ExpandHome(s.LogFile)
	s.TuningFile = ExpandHome(s.TuningFile)
	s.Server.HostKeyPath = ExpandHome(s.Server.HostKeyPath)
	return s, nil
}

// Tuning loads the game tuning named by the settings and applies the
// difficulty preset.
func (s Settings) Tuning() (FlappyConfig, error) {
	preset, err := ParsePreset(s.Difficulty)
	if err != nil {
		return FlappyConfig{}, err
	}
	cfg, err := LoadFlappy(s.TuningFile)
	if err != nil {
		return FlappyConfig{}, err
	}
	ApplyFlappyPreset(&cfg, preset)
	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
