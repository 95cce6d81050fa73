package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix of every setting.
const envPrefix = "BONDMAP"

// Sentinel errors returned by Load. Match them with errors.Is.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigParseError   = errors.New("config file could not be parsed")
	ErrConfigValidation   = errors.New("config validation failed")
)

// newViper builds a Viper instance with the standard settings: YAML file
// type, BONDMAP_ env prefix, automatic env binding and a key replacer that
// maps "." to "_", so "mapping.max_rounds" resolves to
// "BONDMAP_MAPPING_MAX_ROUNDS".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key is registered with its default.
	v.SetDefault("mapping.max_rounds", DefaultMaxRounds)
	v.SetDefault("mapping.inner_passes", DefaultInnerPasses)
	v.SetDefault("mapping.allow_inference", DefaultAllowInference)
	v.SetDefault("partial.enabled", DefaultPartialEnabled)
	v.SetDefault("partial.cut_distance", DefaultCutDistance)
	v.SetDefault("output.map_file", DefaultMapFile)
	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	return v
}

// Load reads the YAML file at configPath, merges BONDMAP_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config: %q: %w", configPath, ErrConfigFileNotFound)
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w: %v", configPath, ErrConfigParseError, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from BONDMAP_* environment variables and
// defaults, with no config file.
//
//	BONDMAP_<SECTION>_<FIELD>   e.g.  BONDMAP_MAPPING_ALLOW_INFERENCE=false
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}

	return cfg, nil
}
