package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/bondmap/pkg/errors"
)

func TestIDList_Add(t *testing.T) {
	l := NewIDList()
	require.NoError(t, l.Add("1", "1"))
	require.NoError(t, l.Add("6", "2"))
	require.NoError(t, l.Add("1", "1"))
	assert.Equal(t, 2, l.Len())

	post, ok := l.PostFor("6")
	assert.True(t, ok)
	assert.Equal(t, "2", post)
	pre, ok := l.PreFor("1")
	assert.True(t, ok)
	assert.Equal(t, "1", pre)
	_, ok = l.PostFor("9")
	assert.False(t, ok)
	_, ok = l.PreFor("9")
	assert.False(t, ok)
	assert.True(t, l.HasPre("6"))
	assert.False(t, l.HasPost("6"))
}

func TestIDList_RejectsSecondPartner(t *testing.T) {
	l := NewIDList()
	require.NoError(t, l.Add("1", "1"))

	err := l.Add("2", "1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateAssignment))
	assert.Contains(t, err.Error(), "post atom 1 is already mapped")

	err = l.Add("1", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre atom 1 is already mapped")
	assert.Contains(t, err.Error(), "existing partner 1, rejected partner 3")

	assert.Equal(t, 1, l.Len())
	assert.False(t, l.HasPre("2"))
	assert.False(t, l.HasPost("3"))
}

func TestIDList_SortedAndClone(t *testing.T) {
	l := NewIDList()
	for _, p := range []Pair{{"10", "a"}, {"2", "b"}, {"1", "c"}} {
		require.NoError(t, l.Add(p.Pre, p.Post))
	}

	assert.Equal(t, []Pair{{"1", "c"}, {"2", "b"}, {"10", "a"}}, l.Sorted())
	assert.Equal(t, []Pair{{"10", "a"}, {"2", "b"}, {"1", "c"}}, l.Pairs())

	c := l.Clone()
	require.NoError(t, c.Add("3", "d"))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 4, c.Len())
}
