package partial

import (
	"fmt"

	"github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
)

// Template is the reaction template ready to be written: the map, the
// retained atoms and the anchors, renumbered when the structures were cut
// down.
type Template struct {
	// Pairs is the final map in natural pre order.
	Pairs []mapping.Pair `json:"pairs"`
	// Partial is set when atoms were dropped and ids renumbered.
	Partial bool `json:"partial"`

	PreAtoms  *IDSet `json:"-"`
	PostAtoms *IDSet `json:"-"`
	// PreTable and PostTable are nil unless Partial is set.
	PreTable  map[string]string `json:"-"`
	PostTable map[string]string `json:"-"`

	PreBonding  []string `json:"pre_bonding"`
	PostBonding []string `json:"post_bonding"`
	PreDelete   []string `json:"pre_delete,omitempty"`
	PostDelete  []string `json:"post_delete,omitempty"`
	// Edges are the pre edge atoms in output numbering.
	Edges []string `json:"edges,omitempty"`

	RingOpening bool        `json:"ring_opening"`
	Rings       []Ring      `json:"rings,omitempty"`
	Byproducts  []string    `json:"byproducts,omitempty"`
	Extensions  []Extension `json:"extensions,omitempty"`
	// Anomalies are conditions the analysis could not settle, such as an
	// edge atom still too close to a type change after extension.
	Anomalies []string `json:"anomalies,omitempty"`
	// Warnings are pairs retained on one side only.
	Warnings []string `json:"warnings,omitempty"`
}

// Analyzer decides which atoms of a mapped reaction to keep.
type Analyzer struct {
	logger logging.Logger
}

// NewAnalyzer returns an Analyzer.
func NewAnalyzer(logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Analyzer{logger: logger.Named("partial")}
}

// Full returns the template of the uncut structures.
func Full(ids *mapping.IDList, anchors mapping.Anchors) *Template {
	return &Template{
		Pairs:       ids.Sorted(),
		PreBonding:  anchors.PreBonding,
		PostBonding: anchors.PostBonding,
		PreDelete:   anchors.PreDelete,
		PostDelete:  anchors.PostDelete,
	}
}

// Analyze finds the retained atom sets and, when they are smaller than the
// pre structure, cuts and renumbers the map and the anchors.
//
// Retained are rings through a bonding atom that the reaction opens, three
// neighbour shells around every bonding atom, delete atoms, the margin around
// edge atoms close to a type change, and post by-products with their pre
// partners. Edge atoms are extended once; an edge still too close to a type
// change afterwards is reported as an anomaly.
func (a *Analyzer) Analyze(pre, post *molecule.Molecule, ids *mapping.IDList, anchors mapping.Anchors) (*Template, error) {
	t := Full(ids, anchors)

	preRings := IsCyclic(pre, anchors.PreBonding)
	postRings := IsCyclic(post, anchors.PostBonding)
	for _, r := range preRings {
		a.logger.Debug("cycle found", logging.String("side", string(molecule.Pre)),
			logging.String("bonding", r.Bonding), logging.Strings("path", r.Path))
	}
	for _, r := range postRings {
		a.logger.Debug("cycle found", logging.String("side", string(molecule.Post)),
			logging.String("bonding", r.Bonding), logging.Strings("path", r.Path))
	}

	preSet, postSet, opening := IsRingOpening(preRings, postRings, ids)
	t.RingOpening = opening
	t.Rings = preRings
	if opening {
		a.logger.Debug("reaction is ring opening", logging.Strings("pre_ring", preSet.Values()))
	}

	KeepAllNeighbours(pre, anchors.PreBonding, preSet)
	KeepAllNeighbours(post, anchors.PostBonding, postSet)
	preSet.Add(anchors.PreDelete...)
	postSet.Add(anchors.PostDelete...)

	edges := FindEdgeAtoms(pre, preSet)
	t.Extensions = VerifyEdgeAtoms(edges, ids, pre, post)
	if len(t.Extensions) > 0 {
		ExtendEdgeAtoms(t.Extensions, ids, pre, post, preSet, postSet)
		edges = FindEdgeAtoms(pre, preSet)
		for _, ext := range VerifyEdgeAtoms(edges, ids, pre, post) {
			msg := fmt.Sprintf("edge atom %s still needs a %d-bond extension", ext.Atom, ext.Radius)
			t.Anomalies = append(t.Anomalies, msg)
			a.logger.Warn(msg, logging.String("atom", ext.Atom), logging.Int("radius", ext.Radius))
		}
	}

	t.Byproducts = Byproducts(post, anchors.PostBonding)
	if len(t.Byproducts) > 0 {
		a.logger.Debug("byproducts found", logging.Strings("byproducts", t.Byproducts))
		postSet.Add(t.Byproducts...)
		for _, id := range t.Byproducts {
			if p, ok := ids.PreFor(id); ok {
				preSet.Add(p)
			}
		}
	}

	t.PreAtoms, t.PostAtoms = preSet, postSet
	t.Edges = edges
	if preSet.Len() == pre.Len() {
		return t, nil
	}

	a.logger.Debug("creating a partial map",
		logging.Int("pre_atoms", preSet.Len()), logging.Int("post_atoms", postSet.Len()))
	pm, err := CreatePartialMap(t.Pairs, preSet, postSet)
	if err != nil {
		return nil, err
	}
	for _, w := range pm.Warnings {
		a.logger.Warn(w)
	}
	t.Partial = true
	t.Pairs = pm.Pairs
	t.PreTable, t.PostTable = pm.PreTable, pm.PostTable
	t.Warnings = pm.Warnings

	renumber := []struct {
		ids   *[]string
		table map[string]string
	}{
		{&t.PreBonding, pm.PreTable},
		{&t.PreDelete, pm.PreTable},
		{&t.PostBonding, pm.PostTable},
		{&t.PostDelete, pm.PostTable},
		{&t.Edges, pm.PreTable},
	}
	for _, r := range renumber {
		out, err := Renumber(*r.ids, r.table)
		if err != nil {
			return nil, err
		}
		*r.ids = out
	}
	return t, nil
}
