package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/walletshell/internal/page"
)

// Config holds application configuration.
type Config struct {
	UI         UIConfig         `mapstructure:"ui"`
	Transition TransitionConfig `mapstructure:"transition"`
	Session    SessionConfig    `mapstructure:"session"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Log        LogConfig        `mapstructure:"log"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	StartPage      string `mapstructure:"start_page"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	NavBreakpoint  int    `mapstructure:"nav_breakpoint"`
	Preload        bool   `mapstructure:"preload"`
}

// TransitionConfig tunes page transitions.
type TransitionConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Duration  time.Duration `mapstructure:"duration"`
	FrameRate int           `mapstructure:"frame_rate"`
	Offset    int           `mapstructure:"offset"`
}

// SessionConfig holds session gate settings.
type SessionConfig struct {
	SkipOnboarding bool `mapstructure:"skip_onboarding"`
}

// LedgerConfig points at the sample data store.
type LedgerConfig struct {
	Path         string `mapstructure:"path"`
	Seed         int64  `mapstructure:"seed"`
	Transactions int    `mapstructure:"transactions"`
}

// LogConfig holds logging settings. An empty path discards logs.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// WALLETSHELL_. path overrides the WALLETSHELL_CONFIG lookup.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("WALLETSHELL_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "walletshell"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WALLETSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ui.start_page", page.Default.String())
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.nav_breakpoint", 100)
	v.SetDefault("ui.preload", false)
	v.SetDefault("transition.enabled", true)
	v.SetDefault("transition.duration", 300*time.Millisecond)
	v.SetDefault("transition.frame_rate", 30)
	v.SetDefault("transition.offset", 2)
	v.SetDefault("session.skip_onboarding", false)
	v.SetDefault("ledger.path", ":memory:")
	v.SetDefault("ledger.seed", 0)
	v.SetDefault("ledger.transactions", 120)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
}

// Validate rejects settings the shell cannot run with.
func (c Config) Validate() error {
	if _, err := c.StartPage(); err != nil {
		return fmt.Errorf("ui.start_page: %w", err)
	}
	if c.UI.NavBreakpoint < 0 {
		return fmt.Errorf("ui.nav_breakpoint must not be negative, got %d", c.UI.NavBreakpoint)
	}
	if c.Transition.Enabled && c.Transition.Duration <= 0 {
		return fmt.Errorf("transition.duration must be positive, got %s", c.Transition.Duration)
	}
	if c.Transition.FrameRate < 1 || c.Transition.FrameRate > 120 {
		return fmt.Errorf("transition.frame_rate must be within 1..120, got %d", c.Transition.FrameRate)
	}
	if c.Transition.Offset < 0 {
		return fmt.Errorf("transition.offset must not be negative, got %d", c.Transition.Offset)
	}
	if c.Ledger.Transactions < 0 {
		return fmt.Errorf("ledger.transactions must not be negative, got %d", c.Ledger.Transactions)
	}
	return nil
}

// StartPage parses UI.StartPage.
func (c Config) StartPage() (page.ID, error) {
	return page.Parse(c.UI.StartPage)
}
