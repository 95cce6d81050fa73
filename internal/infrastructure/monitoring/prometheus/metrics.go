package prometheus

import (
	"time"
)

// MappingMetrics holds the metrics recorded by one bondmap invocation.
type MappingMetrics struct {
	RunsTotal       CounterVec
	RunDuration     HistogramVec
	StageDuration   HistogramVec
	AtomsTotal      GaugeVec
	DecisionsTotal  CounterVec
	InferencesTotal CounterVec
	ReconcileRounds HistogramVec
	UnresolvedAtoms GaugeVec
	EdgeExtensions  CounterVec
	PartialAtoms    GaugeVec
	ErrorsTotal     CounterVec
}

// Default Buckets
var (
	DefaultRunDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60}
	DefaultRoundBuckets       = []float64{0, 1, 2, 3, 5, 8, 10}
)

// NewMappingMetrics registers all metrics and returns the MappingMetrics
// struct.
func NewMappingMetrics(collector MetricsCollector) *MappingMetrics {
	m := &MappingMetrics{}

	m.RunsTotal = collector.RegisterCounter("runs_total", "Command invocations", "command", "status")
	m.RunDuration = collector.RegisterHistogram("run_duration_seconds", "Wall time of a command", DefaultRunDurationBuckets, "command")
	m.StageDuration = collector.RegisterHistogram("stage_duration_seconds", "Wall time of a pipeline stage", DefaultRunDurationBuckets, "stage")
	m.AtomsTotal = collector.RegisterGauge("atoms", "Atoms in each input structure", "side")

	m.DecisionsTotal = collector.RegisterCounter("decisions_total", "Atom pairings by the rule that produced them", "method")
	m.InferencesTotal = collector.RegisterCounter("inferences_total", "Pairings assigned by inference")
	m.ReconcileRounds = collector.RegisterHistogram("reconcile_rounds", "Missing atom reconciliation rounds per run", DefaultRoundBuckets)
	m.UnresolvedAtoms = collector.RegisterGauge("unresolved_atoms", "Atoms left unmapped when the run ended", "side")

	m.EdgeExtensions = collector.RegisterCounter("edge_extensions_total", "Edge atoms whose neighbourhood was extended", "distance")
	m.PartialAtoms = collector.RegisterGauge("partial_atoms", "Atoms retained in the partial structure", "side")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Failed runs by error code", "code")

	return m
}

// Helpers

// RecordRun counts a command invocation and its duration. code is empty on
// success.
func RecordRun(metrics *MappingMetrics, command, code string, duration time.Duration) {
	status := "success"
	if code != "" {
		status = "failure"
		metrics.ErrorsTotal.WithLabelValues(code).Inc()
	}
	metrics.RunsTotal.WithLabelValues(command, status).Inc()
	metrics.RunDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordStage observes the duration of a single pipeline stage.
func RecordStage(metrics *MappingMetrics, stage string, duration time.Duration) {
	metrics.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordDecisions adds the per-method pairing counts of a run.
func RecordDecisions(metrics *MappingMetrics, byMethod map[string]int, inferences int) {
	for method, n := range byMethod {
		metrics.DecisionsTotal.WithLabelValues(method).Add(float64(n))
	}
	metrics.InferencesTotal.WithLabelValues().Add(float64(inferences))
}

// RecordReconcile records how many rounds reconciliation needed and what was
// left over.
func RecordReconcile(metrics *MappingMetrics, rounds, unresolvedPre, unresolvedPost int) {
	metrics.ReconcileRounds.WithLabelValues().Observe(float64(rounds))
	metrics.UnresolvedAtoms.WithLabelValues("pre").Set(float64(unresolvedPre))
	metrics.UnresolvedAtoms.WithLabelValues("post").Set(float64(unresolvedPost))
}

// RecordSizes records the full and partial structure sizes of both sides.
func RecordSizes(metrics *MappingMetrics, preAtoms, postAtoms, prePartial, postPartial int) {
	metrics.AtomsTotal.WithLabelValues("pre").Set(float64(preAtoms))
	metrics.AtomsTotal.WithLabelValues("post").Set(float64(postAtoms))
	metrics.PartialAtoms.WithLabelValues("pre").Set(float64(prePartial))
	metrics.PartialAtoms.WithLabelValues("post").Set(float64(postPartial))
}
