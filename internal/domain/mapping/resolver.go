package mapping

import (
	"fmt"
	"strings"

	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
)

// Method names the rule that produced a pairing.
type Method string

const (
	MethodBonding         Method = "bonding_atom"
	MethodEdge            Method = "edge_atom"
	MethodDelete          Method = "delete_atom"
	MethodSingle          Method = "single_element"
	MethodHydrogen        Method = "hydrogen_symmetry"
	MethodFirstNeighbour  Method = "first_neighbours"
	MethodSecondNeighbour Method = "second_neighbours"
	MethodThirdNeighbour  Method = "third_neighbours"
	MethodEdgeFingerprint Method = "edge_fingerprint"
	MethodInference       Method = "inference"
)

var tierMethods = map[molecule.Tier]Method{
	molecule.First:  MethodFirstNeighbour,
	molecule.Second: MethodSecondNeighbour,
	molecule.Third:  MethodThirdNeighbour,
}

// InferenceWarning records a pairing made by guessing among candidates that
// no fingerprint could tell apart. The result may be wrong and needs review.
type InferenceWarning struct {
	Pre          string   `json:"pre"`
	Chosen       string   `json:"chosen"`
	Alternatives []string `json:"alternatives"`
}

func (w InferenceWarning) String() string {
	return fmt.Sprintf("Pre-bond atomID %s has been assigned by inference to post-bond atomID %s. "+
		"The potential choices were [%s]. Please check this is correct.",
		w.Pre, w.Chosen, strings.Join(w.Alternatives, " "))
}

// Resolver breaks ties between post atoms that share the element of a pre
// atom.
type Resolver struct {
	logger logging.Logger
	onWarn func(InferenceWarning)
}

// NewResolver returns a Resolver. onWarn receives every inference; it may be
// nil.
func NewResolver(logger logging.Logger, onWarn func(InferenceWarning)) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{logger: logger, onWarn: onWarn}
}

// Resolve picks the candidate matching reference. Rules are tried in order
// and the first that decides wins:
//
//  1. hydrogen: the last hydrogen candidate
//  2. first, second, third neighbour fingerprints
//  3. edge fingerprint, when reference carries one
//  4. inference, when allowInference is set: the first candidate of the
//     reference's element, reported through the warning sink
//
// For the fingerprint rules only fingerprints unique among the candidates
// and non-empty are considered, and the match must be exact.
func (r *Resolver) Resolve(candidates []*molecule.Atom, reference *molecule.Atom, allowInference bool) (int, Method, bool) {
	if len(candidates) == 0 {
		return -1, "", false
	}

	if reference.IsHydrogen() {
		for i := len(candidates) - 1; i >= 0; i-- {
			if candidates[i].IsHydrogen() {
				return i, MethodHydrogen, true
			}
		}
	}

	for _, tier := range molecule.Tiers {
		tier := tier
		idx := uniqueMatch(candidates, reference.Fingerprint(tier), func(a *molecule.Atom) string {
			return a.Fingerprint(tier)
		})
		if idx >= 0 {
			return idx, tierMethods[tier], true
		}
	}

	if reference.EdgeFingerprint != "" {
		idx := uniqueMatch(candidates, reference.EdgeFingerprint, func(a *molecule.Atom) string {
			return a.EdgeFingerprint
		})
		if idx >= 0 {
			return idx, MethodEdgeFingerprint, true
		}
	}

	if !allowInference {
		return -1, "", false
	}
	return r.infer(candidates, reference)
}

func (r *Resolver) infer(candidates []*molecule.Atom, reference *molecule.Atom) (int, Method, bool) {
	chosen := -1
	var choices []string
	for i, c := range candidates {
		if c.Element != reference.Element {
			continue
		}
		if chosen < 0 {
			chosen = i
		}
		choices = append(choices, c.ID)
	}
	if chosen < 0 {
		return -1, "", false
	}

	w := InferenceWarning{Pre: reference.ID, Chosen: candidates[chosen].ID, Alternatives: choices}
	r.logger.Warn(w.String(),
		logging.String("pre", w.Pre),
		logging.String("post", w.Chosen),
		logging.Strings("alternatives", w.Alternatives))
	if r.onWarn != nil {
		r.onWarn(w)
	}
	return chosen, MethodInference, true
}

// uniqueMatch returns the index of the candidate whose fingerprint equals want
// and is unique among candidates, or -1.
func uniqueMatch(candidates []*molecule.Atom, want string, fp func(*molecule.Atom) string) int {
	if want == "" {
		return -1
	}
	prints := make([]string, len(candidates))
	counts := make(map[string]int, len(candidates))
	for i, c := range candidates {
		prints[i] = fp(c)
		counts[prints[i]]++
	}
	for i, p := range prints {
		if p == "" || counts[p] != 1 {
			continue
		}
		if p == want {
			return i
		}
	}
	return -1
}
