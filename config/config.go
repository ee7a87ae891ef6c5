package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ReplaceAlways = "always"
	ReplaceDepth  = "depth"
)

var ReplacementPolicies = []string{ReplaceAlways, ReplaceDepth}

var (
	ErrInvalidFraction = errors.New("tt-fraction-of-memory must be in (0, 1]")
	ErrUnknownPolicy   = errors.New("unknown replacement policy")
)

type Config struct {
	TTFractionOfMemory float64 `mapstructure:"tt-fraction-of-memory"`
	TTReplacement      string  `mapstructure:"tt-replacement"`
	TTMultiThreaded    bool    `mapstructure:"tt-multi-threaded"`
	LogLevel           string  `mapstructure:"log-level"`
}

func DefaultConfig() *Config {
	return &Config{
		TTFractionOfMemory: 0.25,
		TTReplacement:      ReplaceDepth,
		TTMultiThreaded:    false,
		LogLevel:           "info",
	}
}

// Load reads flags from args, falling back to DORY_* environment variables
// and then to the defaults.
func (c *Config) Load(args []string) error {
	def := DefaultConfig()
	fs := pflag.NewFlagSet("dory", pflag.ContinueOnError)
	fs.Float64("tt-fraction-of-memory", def.TTFractionOfMemory, "fraction of system memory to give the transposition table")
	fs.String("tt-replacement", def.TTReplacement, "transposition table replacement policy: always or depth")
	fs.Bool("tt-multi-threaded", def.TTMultiThreaded, "lock the transposition table for concurrent searchers")
	fs.String("log-level", def.LogLevel, "zerolog level: debug, info, warn, error, disabled")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("dory")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unmarshalling config: %w", err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.TTFractionOfMemory <= 0 || c.TTFractionOfMemory > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidFraction, c.TTFractionOfMemory)
	}
	if !lo.Contains(ReplacementPolicies, c.TTReplacement) {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, c.TTReplacement)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	return nil
}

// SetupLogging sets the global zerolog level.
func (c *Config) SetupLogging() error {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
