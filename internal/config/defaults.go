package config

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultMaxRounds      = 10
	DefaultInnerPasses    = 3
	DefaultAllowInference = true

	DefaultPartialEnabled = true
	DefaultCutDistance    = 3

	DefaultMapFile      = "automap.data"
	DefaultOutputFormat = "text"

	DefaultMetricsNamespace = "bondmap"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// ApplyDefaults fills every zero-value field in cfg with its default. Fields
// already set are left unchanged so explicit configuration always wins.
//
// Booleans cannot be told apart from "unset" here; their defaults are
// registered on the viper instance instead, see newViper.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Mapping ───────────────────────────────────────────────────────────────
	if cfg.Mapping.MaxRounds == 0 {
		cfg.Mapping.MaxRounds = DefaultMaxRounds
	}
	if cfg.Mapping.InnerPasses == 0 {
		cfg.Mapping.InnerPasses = DefaultInnerPasses
	}

	// ── Partial ───────────────────────────────────────────────────────────────
	if cfg.Partial.CutDistance == 0 {
		cfg.Partial.CutDistance = DefaultCutDistance
	}

	// ── Output ────────────────────────────────────────────────────────────────
	if cfg.Output.MapFile == "" {
		cfg.Output.MapFile = DefaultMapFile
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}
}

// NewDefaultConfig returns a Config holding every default, booleans
// included. It is used when no config file is given.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Mapping.AllowInference = DefaultAllowInference
	cfg.Partial.Enabled = DefaultPartialEnabled
	ApplyDefaults(cfg)
	return cfg
}
