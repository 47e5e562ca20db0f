package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pion/stun/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "HUDDLE"

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Transcription struct {
	Backends      []string      `mapstructure:"backends"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	MinBytes      int           `mapstructure:"min_bytes"`
	Timeout       time.Duration `mapstructure:"timeout"`
	OpenAIAPIKey  string        `mapstructure:"openai_api_key"`
	OpenAIModel   string        `mapstructure:"openai_model"`
	LocalURL      string        `mapstructure:"local_url"`
	LocalAPIKey   string        `mapstructure:"local_api_key"`
	LocalModel    string        `mapstructure:"local_model"`
}

type Summary struct {
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	OpenAIModel  string        `mapstructure:"openai_model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type Sentiment struct {
	AlertThreshold float64 `mapstructure:"alert_threshold"`
	AlertWindow    int     `mapstructure:"alert_window"`
}

type Engagement struct {
	NudgeAfter time.Duration `mapstructure:"nudge_after"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`
	SendBuffer int           `mapstructure:"send_buffer"`
	// MaxDropped consecutive frames lost to a full send buffer disconnect a client.
	MaxDropped int         `mapstructure:"max_dropped"`
	ICEServers []ICEServer `mapstructure:"ice_servers"`

	Transcription Transcription `mapstructure:"transcription"`
	Summary       Summary       `mapstructure:"summary"`
	Sentiment     Sentiment     `mapstructure:"sentiment"`
	Engagement    Engagement    `mapstructure:"engagement"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (default env "dev") and the
// environment. A missing file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg("could not read .env")
	}
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	// the conventional variable works for both features
	_ = v.BindEnv("transcription.openai_api_key", envPrefix+"_TRANSCRIPTION_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("summary.openai_api_key", envPrefix+"_SUMMARY_OPENAI_API_KEY", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "huddle-dev-secret")
	v.SetDefault("log_level", "info")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("max_dropped", 32)

	v.SetDefault("transcription.backends", []string{"openai", "local", "mock"})
	v.SetDefault("transcription.flush_interval", "3s")
	v.SetDefault("transcription.min_bytes", 1024)
	v.SetDefault("transcription.timeout", "30s")
	v.SetDefault("transcription.openai_model", "whisper-1")
	v.SetDefault("transcription.local_model", "whisper-1")

	v.SetDefault("summary.openai_model", "gpt-4o-mini")
	v.SetDefault("summary.timeout", "60s")

	v.SetDefault("sentiment.alert_threshold", -0.5)
	v.SetDefault("sentiment.alert_window", 3)
	v.SetDefault("engagement.nudge_after", "5m")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send_buffer must be positive, got %d", c.SendBuffer)
	}
	if c.Sentiment.AlertWindow <= 0 {
		return fmt.Errorf("sentiment.alert_window must be positive, got %d", c.Sentiment.AlertWindow)
	}
	for _, s := range c.ICEServers {
		if len(s.URLs) == 0 {
			return errors.New("ice server without urls")
		}
		for _, u := range s.URLs {
			if _, err := stun.ParseURI(u); err != nil {
				return fmt.Errorf("ice server %q: %w", u, err)
			}
		}
	}
	return nil
}
