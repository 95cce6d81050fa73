package prometheus

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"

	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

// findMetric returns the sample of family name whose labels equal labels.
func findMetric(t *testing.T, c MetricsCollector, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := c.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m.GetLabel(), labels) {
				return m
			}
		}
	}
	return nil
}

func labelsMatch(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, p := range pairs {
		if want[p.GetName()] != p.GetValue() {
			return false
		}
	}
	return true
}

func TestNewMetricsCollector_ValidConfig(t *testing.T) {
	assert.NotNil(t, newTestCollector(t))
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithGoMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	assert.NotNil(t, findMetric(t, c, "go_goroutines", map[string]string{}))
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("decisions_total", "help", "method").WithLabelValues("unique").Add(5)

	m := findMetric(t, c, "test_unit_decisions_total", map[string]string{"method": "unique"})
	require.NotNil(t, m)
	assert.Equal(t, 5.0, m.GetCounter().GetValue())
}

func TestRegisterCounter_DuplicateSharesVector(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_counter", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup_counter", "help").WithLabelValues().Inc()

	m := findMetric(t, c, "test_unit_dup_counter", map[string]string{})
	require.NotNil(t, m)
	assert.Equal(t, 2.0, m.GetCounter().GetValue())
}

func TestRegisterGauge_Set(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterGauge("atoms", "help", "side").WithLabelValues("pre").Set(10)

	m := findMetric(t, c, "test_unit_atoms", map[string]string{"side": "pre"})
	require.NotNil(t, m)
	assert.Equal(t, 10.0, m.GetGauge().GetValue())
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterHistogram("latency", "help", nil).WithLabelValues().Observe(0.1)

	m := findMetric(t, c, "test_unit_latency", map[string]string{})
	require.NotNil(t, m)
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.Len(t, m.GetHistogram().GetBucket(), 10)
}

func TestTimer_MeasuresDuration(t *testing.T) {
	c := newTestCollector(t)
	hist := c.RegisterHistogram("timer_test", "help", nil)
	timer := NewTimer(hist.WithLabelValues())
	time.Sleep(5 * time.Millisecond)
	d := timer.ObserveDuration()

	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	m := findMetric(t, c, "test_unit_timer_test", map[string]string{})
	require.NotNil(t, m)
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
}

func TestTimer_NilHistogram(t *testing.T) {
	timer := NewTimer(nil)
	assert.NotPanics(t, func() { timer.ObserveDuration() })
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_metric", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()

	m := findMetric(t, c, "test_unit_concurrent_metric", map[string]string{"id": "1"})
	require.NotNil(t, m)
	assert.Equal(t, 50.0, m.GetCounter().GetValue())
}

func TestTypeConflict_ReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()

	gauge := c.RegisterGauge("conflict", "help")
	assert.NotPanics(t, func() { gauge.WithLabelValues().Set(10) })

	m := findMetric(t, c, "test_unit_conflict", map[string]string{})
	require.NotNil(t, m)
	assert.NotNil(t, m.GetCounter())
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
}

func TestWriteTextfile(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("runs_total", "help", "command").WithLabelValues("map").Inc()

	path := filepath.Join(t.TempDir(), "bondmap.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `test_unit_runs_total{command="map"} 1`)
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	c := newTestCollector(t)
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "bondmap.prom"))
	assert.Error(t, err)
}
