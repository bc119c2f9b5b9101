package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Pipeline defaults, also used to clamp invalid values after load.
const (
	defaultRetryAttempts      = 3
	defaultTimeoutSecs        = 45
	defaultMaxConcurrentFiles = 4
)

// Config holds the full application configuration.
type Config struct {
	Anthropic ProviderConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    ProviderConfig `yaml:"gemini" mapstructure:"gemini"`
	DeepSeek  ProviderConfig `yaml:"deepseek" mapstructure:"deepseek"`
	Pipeline  PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Export    ExportConfig   `yaml:"export" mapstructure:"export"`
	Log       LogConfig      `yaml:"log" mapstructure:"log"`
}

// ProviderConfig holds one AI backend's credentials and model selection.
type ProviderConfig struct {
	Key      string  `yaml:"key" mapstructure:"key"`
	Model    string  `yaml:"model" mapstructure:"model"`
	BaseURL  string  `yaml:"base_url" mapstructure:"base_url"`
	RPSLimit float64 `yaml:"rps_limit" mapstructure:"rps_limit"`
}

// Configured reports whether this provider has a credential.
func (p ProviderConfig) Configured() bool {
	return p.Key != ""
}

// PipelineConfig configures extraction and validation behavior.
type PipelineConfig struct {
	// Priority is the provider failover order.
	Priority []string `yaml:"priority" mapstructure:"priority"`
	// RetryAttempts is the total calls per provider on retryable errors.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	// TimeoutSecs bounds each individual provider call.
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// PolicyPath points at the carry-forward policy YAML; empty uses the
	// built-in default table.
	PolicyPath string `yaml:"policy_path" mapstructure:"policy_path"`
	// MaxConcurrentFiles bounds parallel document runs in batch mode.
	MaxConcurrentFiles int `yaml:"max_concurrent_files" mapstructure:"max_concurrent_files"`
}

// CallTimeout returns TimeoutSecs as a duration.
func (p PipelineConfig) CallTimeout() time.Duration {
	return time.Duration(p.TimeoutSecs) * time.Second
}

// ExportConfig configures report copy-out.
type ExportConfig struct {
	// Dir receives TSV report files; empty writes to stdout.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("deepseek.model", "deepseek-chat")
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("pipeline.priority", []string{"anthropic", "gemini", "deepseek"})
	v.SetDefault("pipeline.retry_attempts", defaultRetryAttempts)
	v.SetDefault("pipeline.timeout_secs", defaultTimeoutSecs)
	v.SetDefault("pipeline.max_concurrent_files", defaultMaxConcurrentFiles)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// A non-positive limit would make errgroup.SetLimit block every Go
	// call forever, so clamp rather than hang.
	if cfg.Pipeline.MaxConcurrentFiles <= 0 {
		cfg.Pipeline.MaxConcurrentFiles = defaultMaxConcurrentFiles
	}
	if cfg.Pipeline.RetryAttempts <= 0 {
		cfg.Pipeline.RetryAttempts = defaultRetryAttempts
	}
	if cfg.Pipeline.TimeoutSecs <= 0 {
		cfg.Pipeline.TimeoutSecs = defaultTimeoutSecs
	}

	return &cfg, nil
}

// Provider returns the config block for a provider id, and whether the id
// is known at all.
func (c *Config) Provider(id string) (ProviderConfig, bool) {
	switch id {
	case "anthropic":
		return c.Anthropic, true
	case "gemini":
		return c.Gemini, true
	case "deepseek":
		return c.DeepSeek, true
	}
	return ProviderConfig{}, false
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
