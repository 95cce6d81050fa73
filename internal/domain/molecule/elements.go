package molecule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/turtacn/bondmap/pkg/errors"
)

// ElementTable maps 1-indexed atom types to element symbols.
type ElementTable struct {
	elements []string
}

// NewElementTable builds a table from symbols given in type order. Symbols are
// upper-cased.
func NewElementTable(elements []string) ElementTable {
	upper := make([]string, len(elements))
	for i, e := range elements {
		upper[i] = strings.ToUpper(strings.TrimSpace(e))
	}
	return ElementTable{elements: upper}
}

// Len returns the number of types in the table.
func (t ElementTable) Len() int { return len(t.elements) }

// Symbols returns the symbols in type order.
func (t ElementTable) Symbols() []string {
	return append([]string(nil), t.elements...)
}

// Lookup returns the element of atomType.
func (t ElementTable) Lookup(atomType string) (string, error) {
	n, err := strconv.Atoi(atomType)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeUnknownAtomType,
			fmt.Sprintf("atom type %q is not an integer", atomType))
	}
	if n < 1 || n > len(t.elements) {
		return "", errors.New(errors.ErrCodeUnknownAtomType,
			fmt.Sprintf("atom type %d is outside the element table", n)).
			WithDetail(fmt.Sprintf("table has %d types", len(t.elements)))
	}
	return t.elements[n-1], nil
}
