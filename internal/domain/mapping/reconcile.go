package mapping

import (
	"context"

	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/bondmap/pkg/errors"
)

// Reconcile retries every unmapped pre atom against the pool of unmapped post
// atoms, for at most MaxRounds rounds. Each round runs up to InnerPasses
// matching passes and then drains the queue, since a new pair can unlock
// further deterministic matches around it.
//
// Inference stays off while rounds keep making progress and is switched on
// for the round after one that placed no pre atom. It is never used when
// Options.AllowInference is false.
//
// Calling Reconcile on a complete map is a no-op.
func (e *Engine) Reconcile(ctx context.Context) error {
	inference := false
	for round := 1; round <= e.opts.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCodeCancelled, "atom mapping cancelled")
		}
		missingPre := e.refreshMissingPre()
		if len(missingPre) == 0 {
			break
		}
		missingPost := e.refreshMissingPost()
		e.report.Rounds++

		if err := e.matchMissing(missingPre, missingPost, inference); err != nil {
			return err
		}
		if err := e.drain(ctx, inference); err != nil {
			return err
		}

		left := e.refreshMissingPre()
		e.logger.Debug("reconciliation round finished",
			logging.Int("round", round),
			logging.Bool("inference", inference),
			logging.Strings("missing_pre", left))
		inference = e.opts.AllowInference && len(left) == len(missingPre)
	}

	if left := e.refreshMissingPre(); len(left) > 0 {
		return errors.Unresolved(left, e.refreshMissingPost())
	}
	return nil
}

// refreshMissingPre drops mapped ids from the recorded missing pre atoms and
// appends every other unmapped pre atom in input order.
func (e *Engine) refreshMissingPre() []string {
	e.missingPre = unmapped(e.missingPre, e.pre, e.ids.HasPre)
	return e.missingPre
}

// refreshMissingPost is refreshMissingPre for the post side.
func (e *Engine) refreshMissingPost() []string {
	e.missingPost = unmapped(e.missingPost, e.post, e.ids.HasPost)
	return e.missingPost
}

func unmapped(recorded []string, m *molecule.Molecule, mapped func(string) bool) []string {
	out := make([]string, 0, len(recorded))
	seen := make(map[string]struct{}, len(recorded))
	for _, id := range recorded {
		if _, dup := seen[id]; dup || mapped(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, a := range m.Atoms() {
		if _, dup := seen[a.ID]; dup || mapped(a.ID) {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a.ID)
	}
	return out
}

// matchMissing pairs missing pre atoms with the pool of missing post atoms by
// element.
func (e *Engine) matchMissing(missingPre, missingPost []string, allowInference bool) error {
	pending := e.atoms(e.pre, missingPre)
	pool := e.atoms(e.post, missingPost)

	for pass := 0; pass < e.opts.InnerPasses && len(pool) > 0 && len(pending) > 0; pass++ {
		var still []*molecule.Atom
		for _, preAtom := range pending {
			idx := make([]int, 0, len(pool))
			for i, c := range pool {
				if c.Element == preAtom.Element {
					idx = append(idx, i)
				}
			}

			chosen := -1
			var method Method
			switch {
			case len(idx) == 0:
				e.logger.Debug("no missing post atom shares the element", logging.String("pre", preAtom.ID))
			case len(idx) == 1:
				chosen, method = idx[0], MethodSingle
			case preAtom.IsHydrogen():
				chosen, method = idx[len(idx)-1], MethodHydrogen
			default:
				candidates := make([]*molecule.Atom, len(idx))
				for i, j := range idx {
					candidates[i] = pool[j]
				}
				if k, m, ok := e.resolver.Resolve(candidates, preAtom, allowInference); ok {
					chosen, method = idx[k], m
				}
			}

			if chosen < 0 {
				still = append(still, preAtom)
				continue
			}
			if err := e.pair(preAtom.ID, pool[chosen].ID, method, StageReconcile, true); err != nil {
				return err
			}
			pool = append(pool[:chosen], pool[chosen+1:]...)
		}
		pending = still
	}
	return nil
}

func (e *Engine) atoms(m *molecule.Molecule, ids []string) []*molecule.Atom {
	out := make([]*molecule.Atom, 0, len(ids))
	for _, id := range ids {
		if a, ok := m.Atom(id); ok {
			out = append(out, a)
		}
	}
	return out
}
