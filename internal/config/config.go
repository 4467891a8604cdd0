package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variables that override the config file.
const (
	EnvAPIUser  = "CLOCKODO_API_USER"
	EnvAPIToken = "CLOCKODO_API_TOKEN"
	EnvLanguage = "CLOCKODO_LANGUAGE"
	EnvBaseURL  = "CLOCKODO_BASE_URL"
)

// Config holds the clockodo configuration.
type Config struct {
	APIUser  string `mapstructure:"api_user"`
	APIToken string `mapstructure:"api_token"`
	Language string `mapstructure:"language"`
	BaseURL  string `mapstructure:"base_url"`

	// Debug is set from the command line only.
	Debug bool `mapstructure:"-"`
}

func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "clockodo")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(configDir(), "config.yaml")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(Path())
	v.SetConfigType("yaml")
	v.SetDefault("language", "en")
	v.BindEnv("api_user", EnvAPIUser)
	v.BindEnv("api_token", EnvAPIToken)
	v.BindEnv("language", EnvLanguage)
	v.BindEnv("base_url", EnvBaseURL)
	return v
}

// Load reads the config file, a .env file in the working directory and the
// environment, later sources winning. Both the file and .env are optional,
// but an API user and token must come from somewhere.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	// .env never overrides variables that are already set.
	_ = godotenv.Load(envFile)

	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	if cfg.APIUser == "" || cfg.APIToken == "" {
		return nil, fmt.Errorf("no API credentials. Set %s and %s, or run `clockodo setup`", EnvAPIUser, EnvAPIToken)
	}
	return &cfg, nil
}

// Save writes the config to disk, readable by the owner only.
func Save(cfg *Config) error {
	if err := os.MkdirAll(configDir(), 0o700); err != nil {
		return err
	}

	v := viper.New()
	v.Set("api_user", cfg.APIUser)
	v.Set("api_token", cfg.APIToken)
	if cfg.Language != "" {
		v.Set("language", cfg.Language)
	}
	if cfg.BaseURL != "" {
		v.Set("base_url", cfg.BaseURL)
	}
	if err := v.WriteConfigAs(Path()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(Path(), 0o600)
}
