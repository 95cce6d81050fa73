package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultMaxRounds, cfg.Mapping.MaxRounds)
	assert.Equal(t, DefaultInnerPasses, cfg.Mapping.InnerPasses)
	assert.Equal(t, DefaultCutDistance, cfg.Partial.CutDistance)
	assert.Equal(t, DefaultMapFile, cfg.Output.MapFile)
	assert.Equal(t, DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	assert.False(t, cfg.Mapping.AllowInference)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Mapping.MaxRounds = 25
	cfg.Output.MapFile = "rxn1_map.data"
	ApplyDefaults(cfg)

	assert.Equal(t, 25, cfg.Mapping.MaxRounds)
	assert.Equal(t, "rxn1_map.data", cfg.Output.MapFile)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.True(t, cfg.Mapping.AllowInference)
	assert.True(t, cfg.Partial.Enabled)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}
