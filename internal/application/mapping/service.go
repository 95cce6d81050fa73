// Package mapping provides the application-level service behind the bondmap
// commands. It reads LAMMPS files, drives the domain packages and writes the
// reaction template files.
package mapping

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	domain "github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/internal/domain/partial"
	"github.com/turtacn/bondmap/internal/infrastructure/lammps"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/bondmap/pkg/errors"
)

// Service defines the bondmap operations.
type Service interface {
	Map(ctx context.Context, input *MapInput) (*MapResult, error)
	Molecule(ctx context.Context, input *MoleculeInput) (*FileResult, error)
	Partial(ctx context.Context, input *PartialInput) (*PartialResult, error)
}

// Options tune the service. They are usually filled from config.
type Options struct {
	Engine domain.Options
	// Analyze enables the partial-structure analysis. When false the full
	// structures are written.
	Analyze bool
	// CutDistance is the bond radius used by Partial when the input sets
	// none.
	CutDistance int
	// MapFile is the default map file name.
	MapFile string
}

// DefaultOptions returns the options used without a config file.
func DefaultOptions() Options {
	return Options{
		Engine:      domain.DefaultOptions(),
		Analyze:     true,
		CutDistance: partial.DefaultCutDistance,
		MapFile:     "automap.data",
	}
}

// MapInput contains input for building a reaction template.
type MapInput struct {
	Dir      string
	PreFile  string
	PostFile string
	// PreSave and PostSave are the molecule file names written to Dir.
	PreSave  string
	PostSave string
	// MapFile overrides Options.MapFile.
	MapFile string

	Elements    []string
	PreBonding  []string
	PostBonding []string
	PreDelete   []string
	PostDelete  []string
	Create      []string
}

// MoleculeInput contains input for converting a data file.
type MoleculeInput struct {
	Dir      string
	DataFile string
	SaveName string
}

// PartialInput contains input for cutting a data file.
type PartialInput struct {
	Dir      string
	DataFile string
	SaveName string
	Elements []string
	Bonding  []string
	Delete   []string
	// Distance overrides Options.CutDistance when positive.
	Distance int
}

// MapResult represents a completed mapping run.
type MapResult struct {
	RunID    string            `json:"run_id"`
	Template *partial.Template `json:"template"`
	Report   domain.Report     `json:"report"`
	Files    []string          `json:"files"`
	Duration time.Duration     `json:"duration"`
}

// FileResult represents a file conversion.
type FileResult struct {
	RunID string   `json:"run_id"`
	Files []string `json:"files"`
	Atoms int      `json:"atoms"`
}

// PartialResult represents a cut-down data file.
type PartialResult struct {
	RunID string              `json:"run_id"`
	Files []string            `json:"files"`
	Atoms int                 `json:"atoms"`
	Kept  []string            `json:"kept"`
	Edges []molecule.EdgeAtom `json:"edges,omitempty"`
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	opts    Options
	logger  logging.Logger
	metrics *prometheus.MappingMetrics
}

// NewService creates a new mapping application service. metrics may be nil.
func NewService(opts Options, logger logging.Logger, metrics *prometheus.MappingMetrics) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.MapFile == "" {
		opts.MapFile = DefaultOptions().MapFile
	}
	if opts.CutDistance <= 0 {
		opts.CutDistance = partial.DefaultCutDistance
	}
	return &serviceImpl{opts: opts, logger: logger, metrics: metrics}
}

// output is a file rendered in memory, written once every stage succeeded.
type output struct {
	path string
	data bytes.Buffer
}

func (s *serviceImpl) Map(ctx context.Context, input *MapInput) (result *MapResult, err error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := s.logger.With(logging.String("run_id", runID), logging.String("command", "map"))
	defer func() { s.recordRun("map", err, time.Since(start)) }()

	if input == nil {
		return nil, errors.InvalidParam("map input is required")
	}
	if input.PreSave == "" || input.PostSave == "" {
		return nil, errors.InvalidParam("pre and post save names are required")
	}

	var preFile, postFile *lammps.File
	err = s.stage("parse", func() error {
		var err error
		if preFile, err = readFile(input.Dir, input.PreFile); err != nil {
			return err
		}
		postFile, err = readFile(input.Dir, input.PostFile)
		return err
	})
	if err != nil {
		return nil, err
	}

	var pre, post *molecule.Molecule
	var anchors domain.Anchors
	err = s.stage("build", func() error {
		table := molecule.NewElementTable(input.Elements)
		preAnchors, err := preFile.Anchors()
		if err != nil {
			return err
		}
		postAnchors, err := postFile.Anchors()
		if err != nil {
			return err
		}
		anchors = domain.Anchors{
			PreBonding:  firstOf(input.PreBonding, preAnchors.Bonding),
			PostBonding: firstOf(input.PostBonding, postAnchors.Bonding),
			PreDelete:   firstOf(input.PreDelete, preAnchors.Delete),
			PostDelete:  firstOf(input.PostDelete, postAnchors.Delete),
		}
		if pre, err = buildMolecule(preFile, molecule.Pre, table, molecule.Options{
			Bonding: anchors.PreBonding,
			Delete:  anchors.PreDelete,
			Edges:   preAnchors.Edges,
		}); err != nil {
			return err
		}
		post, err = buildMolecule(postFile, molecule.Post, table, molecule.Options{
			Bonding: anchors.PostBonding,
			Delete:  anchors.PostDelete,
			Edges:   postAnchors.Edges,
			Create:  input.Create,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("structures loaded",
		logging.Int("pre_atoms", pre.Len()),
		logging.Int("post_atoms", post.Len()),
		logging.Strings("elements", input.Elements))

	var mapped *domain.Result
	err = s.stage("map", func() error {
		opts := s.opts.Engine
		opts.Logger = logger.Named("engine")
		var err error
		mapped, err = domain.NewEngine(pre, post, opts).Run(ctx, anchors)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.recordMapping(mapped.Report)

	var tmpl *partial.Template
	err = s.stage("analyze", func() error {
		if !s.opts.Analyze {
			tmpl = partial.Full(mapped.IDs, anchors)
			return nil
		}
		var err error
		tmpl, err = partial.NewAnalyzer(logger).Analyze(pre, post, mapped.IDs, anchors)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(tmpl.Edges) == 0 && !tmpl.Partial {
		tmpl.Edges = edgeIDs(pre.EdgeAtoms())
	}
	s.recordTemplate(tmpl, pre, post)

	mapFile := input.MapFile
	if mapFile == "" {
		mapFile = s.opts.MapFile
	}
	outputs := []*output{
		{path: filepath.Join(input.Dir, input.PreSave)},
		{path: filepath.Join(input.Dir, input.PostSave)},
		{path: filepath.Join(input.Dir, mapFile)},
	}
	err = s.stage("write", func() error {
		if err := lammps.WriteMolecule(&outputs[0].data, lammps.MoleculeSpec{
			Source:   preFile,
			Renumber: tmpl.PreTable,
			Bonding:  tmpl.PreBonding,
			Delete:   tmpl.PreDelete,
		}); err != nil {
			return err
		}
		if err := lammps.WriteMolecule(&outputs[1].data, lammps.MoleculeSpec{
			Source:   postFile,
			Renumber: tmpl.PostTable,
			Bonding:  tmpl.PostBonding,
			Delete:   tmpl.PostDelete,
		}); err != nil {
			return err
		}
		if err := lammps.WriteMap(&outputs[2].data, lammps.MapSpec{
			Pairs:   tmpl.Pairs,
			Bonding: tmpl.PreBonding,
			Delete:  tmpl.PreDelete,
			Edges:   tmpl.Edges,
		}); err != nil {
			return err
		}
		return commit(outputs)
	})
	if err != nil {
		return nil, err
	}

	result = &MapResult{
		RunID:    runID,
		Template: tmpl,
		Report:   mapped.Report,
		Files:    paths(outputs),
		Duration: time.Since(start),
	}
	logger.Info("reaction template written",
		logging.Strings("files", result.Files),
		logging.Bool("partial", tmpl.Partial),
		logging.Int("inferences", len(mapped.Report.Warnings)),
		logging.Duration("duration", result.Duration))
	return result, nil
}

func (s *serviceImpl) Molecule(ctx context.Context, input *MoleculeInput) (result *FileResult, err error) {
	start := time.Now()
	runID := uuid.New().String()
	defer func() { s.recordRun("molecule", err, time.Since(start)) }()

	if input == nil || input.SaveName == "" {
		return nil, errors.InvalidParam("a save name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCancelled, "molecule conversion cancelled")
	}

	f, err := readFile(input.Dir, input.DataFile)
	if err != nil {
		return nil, err
	}
	anchors, err := f.Anchors()
	if err != nil {
		return nil, err
	}
	out := &output{path: filepath.Join(input.Dir, input.SaveName)}
	if err := lammps.WriteMolecule(&out.data, lammps.MoleculeSpec{
		Source:  f,
		Bonding: anchors.Bonding,
		Delete:  anchors.Delete,
	}); err != nil {
		return nil, err
	}
	if err := commit([]*output{out}); err != nil {
		return nil, err
	}

	atoms, _ := f.Section(lammps.SectionAtoms)
	s.logger.Info("molecule file written",
		logging.String("run_id", runID),
		logging.String("file", out.path),
		logging.Int("atoms", len(atoms.Rows)))
	return &FileResult{RunID: runID, Files: []string{out.path}, Atoms: len(atoms.Rows)}, nil
}

func (s *serviceImpl) Partial(ctx context.Context, input *PartialInput) (result *PartialResult, err error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := s.logger.With(logging.String("run_id", runID), logging.String("command", "partial"))
	defer func() { s.recordRun("partial", err, time.Since(start)) }()

	if input == nil || input.SaveName == "" {
		return nil, errors.InvalidParam("a save name is required")
	}
	if len(input.Bonding) == 0 {
		return nil, errors.InvalidParam("at least one bonding atom is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCancelled, "partial cut cancelled")
	}

	f, err := readFile(input.Dir, input.DataFile)
	if err != nil {
		return nil, err
	}
	m, err := buildMolecule(f, molecule.Pre, molecule.NewElementTable(input.Elements), molecule.Options{
		Bonding: input.Bonding,
		Delete:  input.Delete,
	})
	if err != nil {
		return nil, err
	}

	distance := input.Distance
	if distance <= 0 {
		distance = s.opts.CutDistance
	}
	kept, edges := partial.Cut(m, input.Bonding, input.Delete, distance)
	logger.Debug("structure cut",
		logging.Int("distance", distance),
		logging.Strings("kept", kept.Values()),
		logging.Strings("edges", edgeIDs(nil, edges...)))

	out := &output{path: filepath.Join(input.Dir, input.SaveName)}
	if err := lammps.WriteDataPartial(&out.data, lammps.DataPartialSpec{
		Source:  f,
		Keep:    kept.Contains,
		Bonding: input.Bonding,
		Edges:   edges,
	}); err != nil {
		return nil, err
	}
	if err := commit([]*output{out}); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PartialAtoms.WithLabelValues(string(molecule.Pre)).Set(float64(kept.Len()))
	}

	logger.Info("partial data file written",
		logging.String("file", out.path),
		logging.Int("atoms", kept.Len()),
		logging.Int("edges", len(edges)))
	return &PartialResult{
		RunID: runID,
		Files: []string{out.path},
		Atoms: m.Len(),
		Kept:  kept.Values(),
		Edges: edges,
	}, nil
}

// stage runs fn and records its duration.
func (s *serviceImpl) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if s.metrics != nil {
		prometheus.RecordStage(s.metrics, name, time.Since(start))
	}
	return err
}

func (s *serviceImpl) recordRun(command string, err error, d time.Duration) {
	if s.metrics == nil {
		return
	}
	code := ""
	if err != nil {
		code = string(errors.GetCode(err))
	}
	prometheus.RecordRun(s.metrics, command, code, d)
}

func (s *serviceImpl) recordMapping(r domain.Report) {
	if s.metrics == nil {
		return
	}
	prometheus.RecordDecisions(s.metrics, r.ByMethod(), len(r.Warnings))
	prometheus.RecordReconcile(s.metrics, r.Rounds, 0, len(r.UnmappedPost))
}

func (s *serviceImpl) recordTemplate(t *partial.Template, pre, post *molecule.Molecule) {
	if s.metrics == nil {
		return
	}
	preKept, postKept := pre.Len(), post.Len()
	if t.PreAtoms != nil {
		preKept, postKept = t.PreAtoms.Len(), t.PostAtoms.Len()
	}
	prometheus.RecordSizes(s.metrics, pre.Len(), post.Len(), preKept, postKept)
	for _, ext := range t.Extensions {
		s.metrics.EdgeExtensions.WithLabelValues(strconv.Itoa(ext.Radius)).Inc()
	}
}

func readFile(dir, name string) (*lammps.File, error) {
	path := filepath.Join(dir, name)
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIO, "cannot open "+path)
	}
	defer fh.Close()
	return lammps.Parse(path, fh)
}

func buildMolecule(f *lammps.File, side molecule.Side, table molecule.ElementTable, opts molecule.Options) (*molecule.Molecule, error) {
	records, err := f.AtomRecords()
	if err != nil {
		return nil, err
	}
	bonds, err := f.Bonds()
	if err != nil {
		return nil, err
	}
	return molecule.Build(side, records, bonds, table, opts)
}

// commit writes every rendered output. Nothing is written before all of
// them rendered.
func commit(outputs []*output) error {
	for _, o := range outputs {
		if err := os.WriteFile(o.path, o.data.Bytes(), 0o644); err != nil {
			return errors.Wrap(err, errors.ErrCodeIO, "cannot write "+o.path)
		}
	}
	return nil
}

func paths(outputs []*output) []string {
	out := make([]string, len(outputs))
	for i, o := range outputs {
		out[i] = o.path
	}
	return out
}

func firstOf(ids, fallback []string) []string {
	if len(ids) > 0 {
		return ids
	}
	return fallback
}

func edgeIDs(atoms []*molecule.Atom, edges ...molecule.EdgeAtom) []string {
	var out []string
	for _, a := range atoms {
		out = append(out, a.ID)
	}
	for _, e := range edges {
		out = append(out, e.ID)
	}
	return out
}
