package partial

import (
	"fmt"
	"strconv"

	"github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/pkg/errors"
)

// PartialMap is a map cut down to the retained atoms and renumbered from 1.
type PartialMap struct {
	// Pairs are the renumbered pairs, i -> i.
	Pairs []mapping.Pair
	// Kept are the retained pairs with their original ids, in the order
	// they were numbered.
	Kept []mapping.Pair
	// PreTable and PostTable map original ids to new ids.
	PreTable  map[string]string
	PostTable map[string]string
	// Warnings names pairs retained on one side only.
	Warnings []string
}

// CreatePartialMap keeps the pairs whose ids are retained on both sides and
// renumbers them in parallel: the i-th kept pair becomes (i, i).
func CreatePartialMap(pairs []mapping.Pair, preSet, postSet *IDSet) (*PartialMap, error) {
	pm := &PartialMap{
		PreTable:  make(map[string]string),
		PostTable: make(map[string]string),
	}
	for _, p := range pairs {
		inPre, inPost := preSet.Contains(p.Pre), postSet.Contains(p.Post)
		switch {
		case inPre && inPost:
			pm.Kept = append(pm.Kept, p)
		case inPre:
			pm.Warnings = append(pm.Warnings,
				fmt.Sprintf("pre atom %s is present but post atom %s missing", p.Pre, p.Post))
		case inPost:
			pm.Warnings = append(pm.Warnings,
				fmt.Sprintf("pre atom %s is missing but post atom %s present", p.Pre, p.Post))
		}
	}

	for i, p := range pm.Kept {
		n := strconv.Itoa(i + 1)
		pm.PreTable[p.Pre] = n
		pm.PostTable[p.Post] = n
		pm.Pairs = append(pm.Pairs, mapping.Pair{Pre: n, Post: n})
	}

	if len(pm.PreTable) != len(pm.PostTable) {
		return nil, errors.CountMismatch(
			"different numbers of atoms in the pre- and post-bond partial structures",
			len(pm.PreTable), len(pm.PostTable))
	}
	return pm, nil
}

// Renumber translates ids through table, keeping their order. A nil input
// yields nil.
func Renumber(ids []string, table map[string]string) ([]string, error) {
	if ids == nil {
		return nil, nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		n, ok := table[id]
		if !ok {
			return nil, errors.New(errors.ErrCodePartialMismatch,
				fmt.Sprintf("atom %s is not in the partial structure", id))
		}
		out[i] = n
	}
	return out, nil
}
