package mapping

import (
	"sort"

	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/pkg/errors"
)

// Pair binds a pre-reaction atom id to a post-reaction atom id.
type Pair struct {
	Pre  string `json:"pre"`
	Post string `json:"post"`
}

// IDList is the accumulating atom map. Each pre id and each post id appears
// at most once; Add refuses any pair that would break that.
type IDList struct {
	pairs  []Pair
	byPre  map[string]int
	byPost map[string]int
}

// NewIDList returns an empty list.
func NewIDList() *IDList {
	return &IDList{
		byPre:  make(map[string]int),
		byPost: make(map[string]int),
	}
}

// Add appends the pair. Re-adding an identical pair is a no-op. A pair whose
// pre or post id is already bound to a different partner is rejected with a
// DuplicateAssignment error and the list is left unchanged.
func (l *IDList) Add(pre, post string) error {
	if i, ok := l.byPre[pre]; ok {
		if l.pairs[i].Post == post {
			return nil
		}
		return errors.DuplicateAssignment("pre", pre, l.pairs[i].Post, post)
	}
	if i, ok := l.byPost[post]; ok {
		return errors.DuplicateAssignment("post", post, l.pairs[i].Pre, pre)
	}
	l.byPre[pre] = len(l.pairs)
	l.byPost[post] = len(l.pairs)
	l.pairs = append(l.pairs, Pair{Pre: pre, Post: post})
	return nil
}

// Len returns the number of pairs.
func (l *IDList) Len() int { return len(l.pairs) }

// Pairs returns the pairs in insertion order.
func (l *IDList) Pairs() []Pair {
	return append([]Pair(nil), l.pairs...)
}

// Sorted returns the pairs in natural order of the pre id.
func (l *IDList) Sorted() []Pair {
	out := l.Pairs()
	sort.SliceStable(out, func(i, j int) bool {
		return molecule.NaturalLess(out[i].Pre, out[j].Pre)
	})
	return out
}

// HasPre reports whether id is mapped on the pre side.
func (l *IDList) HasPre(id string) bool {
	_, ok := l.byPre[id]
	return ok
}

// HasPost reports whether id is mapped on the post side.
func (l *IDList) HasPost(id string) bool {
	_, ok := l.byPost[id]
	return ok
}

// PostFor returns the partner of a pre id.
func (l *IDList) PostFor(pre string) (string, bool) {
	i, ok := l.byPre[pre]
	if !ok {
		return "", false
	}
	return l.pairs[i].Post, true
}

// PreFor returns the partner of a post id.
func (l *IDList) PreFor(post string) (string, bool) {
	i, ok := l.byPost[post]
	if !ok {
		return "", false
	}
	return l.pairs[i].Pre, true
}

// Clone returns an independent copy.
func (l *IDList) Clone() *IDList {
	c := NewIDList()
	for _, p := range l.pairs {
		_ = c.Add(p.Pre, p.Post)
	}
	return c
}
