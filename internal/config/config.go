package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// MaxExecRetries bounds exec.max_retries; the last backoff delay is
// 2^(MaxExecRetries-1) seconds.
const MaxExecRetries = 10

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	Rate       Rate          `mapstructure:"rate"`
	Exec       Exec          `mapstructure:"exec"`
	Chat       Chat          `mapstructure:"chat"`
}

// Rate bounds inbound messages per connection.
type Rate struct {
	Messages int           `mapstructure:"messages"`
	Interval time.Duration `mapstructure:"interval"`
}

type Exec struct {
	Host       string        `mapstructure:"host"`
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	MinDelay   time.Duration `mapstructure:"min_delay"`
	MaxRetries int           `mapstructure:"max_retries"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Chat struct {
	Provider     string        `mapstructure:"provider"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	MaxTokens    int64         `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SystemPrompt string        `mapstructure:"system_prompt"`
}

func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName if present, then applies CODEROOM_* environment
// overrides on top of the defaults.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("CODEROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("exec.api_key", "CODEROOM_EXEC_API_KEY", "RAPID_API_KEY")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5000)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "25s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("rate.messages", 200)
	v.SetDefault("rate.interval", "1s")
	v.SetDefault("exec.host", "judge0-ce.p.rapidapi.com")
	v.SetDefault("exec.base_url", "")
	v.SetDefault("exec.api_key", "")
	v.SetDefault("exec.min_delay", "500ms")
	v.SetDefault("exec.max_retries", 5)
	v.SetDefault("exec.timeout", "30s")
	v.SetDefault("chat.provider", "")
	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.model", "")
	v.SetDefault("chat.max_tokens", 1024)
	v.SetDefault("chat.timeout", "30s")
	v.SetDefault("chat.system_prompt", "")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Exec.MaxRetries < 0 || cfg.Exec.MaxRetries > MaxExecRetries {
		return nil, fmt.Errorf("exec.max_retries (%d) must be between 0 and %d", cfg.Exec.MaxRetries, MaxExecRetries)
	}
	if cfg.PingPeriod >= cfg.PongWait {
		return nil, fmt.Errorf("ping_period (%s) must be shorter than pong_wait (%s)", cfg.PingPeriod, cfg.PongWait)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).
		Bool("exec_configured", cfg.Exec.APIKey != "").Str("chat_provider", cfg.Chat.Provider).Msg("config ready")
	return &cfg, nil
}
