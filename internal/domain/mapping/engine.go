// Package mapping pairs the atoms of a pre-reaction structure with the atoms
// of its post-reaction structure.
//
// The Engine seeds a work queue with trusted pairs (bonding atoms and edge
// atoms with a unique fingerprint), then walks both bond graphs outwards in
// lock step, pairing neighbours by element. Ties are broken by the Resolver.
// Atoms that cannot be placed locally are retried globally by Reconcile once
// more of the map is known.
package mapping

import (
	"context"
	"fmt"
	"sort"

	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/bondmap/pkg/errors"
)

// Defaults for Options.
const (
	DefaultMaxRounds   = 10
	DefaultInnerPasses = 3
)

// Stage names the engine phase that produced a decision.
type Stage string

const (
	StageSeed      Stage = "seed"
	StageQueue     Stage = "queue"
	StageReconcile Stage = "reconcile"
)

// Anchors are the caller-declared pairs. Pre and post lists are
// order-correlated.
type Anchors struct {
	PreBonding  []string
	PostBonding []string
	PreDelete   []string
	PostDelete  []string
}

// Options tune an Engine.
type Options struct {
	// MaxRounds bounds missing-atom reconciliation.
	MaxRounds int
	// InnerPasses bounds the matching passes inside one round.
	InnerPasses int
	// AllowInference enables the guessing tier of the Resolver. When false
	// the engine either finds a deterministic map or fails.
	AllowInference bool

	Logger logging.Logger
	// OnInference is called for every inference, after it is recorded.
	OnInference func(InferenceWarning)
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxRounds:      DefaultMaxRounds,
		InnerPasses:    DefaultInnerPasses,
		AllowInference: true,
	}
}

// Decision is one recorded pairing.
type Decision struct {
	Pre    string `json:"pre"`
	Post   string `json:"post"`
	Method Method `json:"method"`
	Stage  Stage  `json:"stage"`
}

// Report summarises how a map was produced.
type Report struct {
	Decisions []Decision         `json:"decisions"`
	Warnings  []InferenceWarning `json:"warnings,omitempty"`
	// Rounds is the number of reconciliation rounds that ran.
	Rounds int `json:"rounds"`
	// UnmappedPost lists post atoms without a partner, which only happens
	// when create atoms relax the count check.
	UnmappedPost []string `json:"unmapped_post,omitempty"`
}

// ByMethod counts decisions per method.
func (r Report) ByMethod() map[string]int {
	out := make(map[string]int)
	for _, d := range r.Decisions {
		out[string(d.Method)]++
	}
	return out
}

// Result is the output of a successful run.
type Result struct {
	IDs    *IDList
	Report Report
}

// Engine maps one pre structure onto one post structure. It is single-use
// and not safe for concurrent use.
type Engine struct {
	pre  *molecule.Molecule
	post *molecule.Molecule
	opts Options

	logger   logging.Logger
	resolver *Resolver

	ids         *IDList
	queue       *workQueue
	missingPre  []string
	missingPost []string
	report      Report
	ran         bool
}

// NewEngine returns an Engine for the two structures. Zero-valued bounds in
// opts fall back to the defaults.
func NewEngine(pre, post *molecule.Molecule, opts Options) *Engine {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.InnerPasses <= 0 {
		opts.InnerPasses = DefaultInnerPasses
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	e := &Engine{
		pre:    pre,
		post:   post,
		opts:   opts,
		logger: logger,
		ids:    NewIDList(),
		queue:  newWorkQueue(),
	}
	e.resolver = NewResolver(logger, func(w InferenceWarning) {
		e.report.Warnings = append(e.report.Warnings, w)
		if opts.OnInference != nil {
			opts.OnInference(w)
		}
	})
	return e
}

// Run validates the anchors, seeds the queue, propagates matches and
// reconciles leftovers. Atom slots of both molecules are reset first.
func (e *Engine) Run(ctx context.Context, anchors Anchors) (*Result, error) {
	if e.ran {
		return nil, errors.Internal("engine has already run")
	}
	e.ran = true

	if err := e.validate(anchors); err != nil {
		return nil, err
	}
	e.pre.ResetSlots()
	e.post.ResetSlots()

	if err := e.seed(anchors); err != nil {
		return nil, err
	}
	if err := e.drain(ctx, false); err != nil {
		return nil, err
	}
	if err := e.Reconcile(ctx); err != nil {
		return nil, err
	}

	for _, id := range e.post.IDs() {
		if !e.ids.HasPost(id) {
			e.report.UnmappedPost = append(e.report.UnmappedPost, id)
		}
	}
	e.logger.Info("atom map complete",
		logging.Int("pairs", e.ids.Len()),
		logging.Int("rounds", e.report.Rounds),
		logging.Int("inferences", len(e.report.Warnings)))

	return &Result{IDs: e.ids, Report: e.report}, nil
}

// IDs returns the map built so far.
func (e *Engine) IDs() *IDList { return e.ids }

// Report returns the decisions recorded so far.
func (e *Engine) Report() Report { return e.report }

func (e *Engine) validate(a Anchors) error {
	if len(a.PreBonding) != len(a.PostBonding) {
		return errors.New(errors.ErrCodeAnchorMismatch, "pre- and post-bond bonding atom lists differ in length").
			WithDetail(fmt.Sprintf("pre: %d, post: %d", len(a.PreBonding), len(a.PostBonding)))
	}
	if len(a.PreBonding) == 0 {
		return errors.New(errors.ErrCodeAnchorMismatch, "no bonding atoms declared")
	}
	if len(a.PreDelete) != len(a.PostDelete) {
		return errors.New(errors.ErrCodeAnchorMismatch, "pre- and post-bond delete atom lists differ in length").
			WithDetail(fmt.Sprintf("pre: %d, post: %d", len(a.PreDelete), len(a.PostDelete)))
	}
	for _, side := range []struct {
		mol *molecule.Molecule
		ids []string
	}{
		{e.pre, a.PreBonding}, {e.pre, a.PreDelete},
		{e.post, a.PostBonding}, {e.post, a.PostDelete},
	} {
		for _, id := range side.ids {
			if !side.mol.Has(id) {
				return errors.New(errors.ErrCodeStructuralIntegrity,
					fmt.Sprintf("anchor atom %s is not in the %s structure", id, side.mol.Side()))
			}
		}
	}
	if len(e.post.CreateAtoms()) == 0 && e.pre.Len() != e.post.Len() {
		return errors.CountMismatch("different numbers of atoms in pre- and post-bond structures",
			e.pre.Len(), e.post.Len())
	}
	return nil
}

func (e *Engine) seed(a Anchors) error {
	for i, preID := range a.PreBonding {
		if err := e.pair(preID, a.PostBonding[i], MethodBonding, StageSeed, true); err != nil {
			return err
		}
	}
	if err := e.seedEdges(); err != nil {
		return err
	}
	for i, preID := range a.PreDelete {
		if err := e.pair(preID, a.PostDelete[i], MethodDelete, StageSeed, false); err != nil {
			return err
		}
	}
	return nil
}

// seedEdges pairs edge atoms whose fingerprint occurs once. Both sides must
// carry the same multiset of fingerprints.
func (e *Engine) seedEdges() error {
	preEdges := e.pre.EdgeAtoms()
	postEdges := e.post.EdgeAtoms()
	if len(preEdges) == 0 && len(postEdges) == 0 {
		return nil
	}

	prePrints := edgePrints(preEdges)
	postPrints := edgePrints(postEdges)
	if !sameMultiset(prePrints, postPrints) {
		return errors.New(errors.ErrCodeEdgeFingerprint, "pre and post edge atom fingerprints do not match").
			WithDetail(fmt.Sprintf("pre: %v, post: %v", prePrints, postPrints))
	}

	counts := make(map[string]int, len(prePrints))
	for _, p := range prePrints {
		counts[p]++
	}
	for _, preAtom := range preEdges {
		if counts[preAtom.EdgeFingerprint] != 1 {
			continue
		}
		for _, postAtom := range postEdges {
			if postAtom.EdgeFingerprint != preAtom.EdgeFingerprint {
				continue
			}
			if e.ids.HasPre(preAtom.ID) || e.ids.HasPost(postAtom.ID) {
				break
			}
			if err := e.pair(preAtom.ID, postAtom.ID, MethodEdge, StageSeed, true); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func edgePrints(atoms []*molecule.Atom) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = a.EdgeFingerprint
	}
	return out
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// pair records a decision and, when enqueue is set and the atom is not a
// hydrogen, queues the pair for propagation.
func (e *Engine) pair(preID, postID string, method Method, stage Stage, enqueue bool) error {
	if err := e.ids.Add(preID, postID); err != nil {
		return err
	}
	e.report.Decisions = append(e.report.Decisions, Decision{Pre: preID, Post: postID, Method: method, Stage: stage})
	e.logger.Debug("atom pair found",
		logging.String("pre", preID),
		logging.String("post", postID),
		logging.String("method", string(method)),
		logging.String("stage", string(stage)))

	if !enqueue {
		return nil
	}
	preAtom, _ := e.pre.Atom(preID)
	postAtom, _ := e.post.Atom(postID)
	if preAtom == nil || postAtom == nil || preAtom.IsHydrogen() {
		return nil
	}
	e.queue.push(preAtom, postAtom)
	return nil
}

// drain processes the queue until it is empty.
func (e *Engine) drain(ctx context.Context, allowInference bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCodeCancelled, "atom mapping cancelled")
		}
		item, ok := e.queue.pop()
		if !ok {
			return nil
		}
		if err := e.mapNeighbours(item.pre, item.post, allowInference); err != nil {
			return err
		}
	}
}

// mapNeighbours pairs the unclaimed neighbours of a matched pair.
func (e *Engine) mapNeighbours(pre, post *molecule.Atom, allowInference bool) error {
	pre.Prune(e.ids.HasPre)
	post.Prune(e.ids.HasPost)

	preIDs, preElements := pre.Remaining()
	_, postElements := post.Remaining()
	allowed := allowedElements(preElements, postElements)

	for i, preID := range preIDs {
		element := preElements[i]
		if !allowed[element] {
			e.addMissingPre(preID)
			continue
		}

		postIDs, postElements := post.Remaining()
		idx := indexesOf(postElements, element)
		switch {
		case len(idx) == 0:
			e.addMissingPre(preID)
		case len(idx) == 1:
			if err := e.claim(pre, post, preID, postIDs[idx[0]], MethodSingle); err != nil {
				return err
			}
		case element == molecule.Hydrogen:
			if err := e.claim(pre, post, preID, postIDs[idx[len(idx)-1]], MethodHydrogen); err != nil {
				return err
			}
		default:
			reference, _ := e.pre.Atom(preID)
			candidates := make([]*molecule.Atom, 0, len(idx))
			for _, j := range idx {
				c, _ := e.post.Atom(postIDs[j])
				candidates = append(candidates, c)
			}
			k, method, ok := e.resolver.Resolve(candidates, reference, allowInference)
			if !ok {
				e.logger.Debug("could not find the symmetric pair", logging.String("pre", preID))
				e.addMissingPre(preID)
				continue
			}
			if err := e.claim(pre, post, preID, candidates[k].ID, method); err != nil {
				return err
			}
		}
	}

	postLeft, _ := post.Remaining()
	for _, id := range postLeft {
		e.addMissingPost(id)
	}
	return nil
}

func (e *Engine) claim(pre, post *molecule.Atom, preID, postID string, method Method) error {
	pre.Claim(preID)
	post.Claim(postID)
	return e.pair(preID, postID, method, StageQueue, true)
}

// allowedElements reports, per pre element, whether the element occurs as
// often among the post neighbours. Hydrogen is always allowed.
func allowedElements(pre, post []string) map[string]bool {
	preCount := make(map[string]int)
	postCount := make(map[string]int)
	for _, el := range pre {
		preCount[el]++
	}
	for _, el := range post {
		postCount[el]++
	}
	allowed := make(map[string]bool, len(preCount))
	for el, n := range preCount {
		allowed[el] = n == postCount[el]
	}
	if _, ok := allowed[molecule.Hydrogen]; ok {
		allowed[molecule.Hydrogen] = true
	}
	return allowed
}

func indexesOf(elements []string, element string) []int {
	var out []int
	for i, el := range elements {
		if el == element {
			out = append(out, i)
		}
	}
	return out
}

// addMissingPre records id for reconciliation. Duplicates are dropped when
// the list is refreshed.
func (e *Engine) addMissingPre(id string) {
	e.missingPre = append(e.missingPre, id)
}

func (e *Engine) addMissingPost(id string) {
	e.missingPost = append(e.missingPost, id)
}
