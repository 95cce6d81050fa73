package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkQueue_FIFO(t *testing.T) {
	pre := methane(t)
	post := ethane(t)
	q := newWorkQueue()

	_, ok := q.pop()
	assert.False(t, ok)

	for _, id := range []string{"1", "6", "2"} {
		q.push(atomOf(t, pre, id), atomOf(t, post, id))
	}
	assert.Equal(t, 3, q.len())

	for _, want := range []string{"1", "6", "2"} {
		item, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, want, item.pre.ID)
		assert.Equal(t, want, item.post.ID)
	}
	assert.Equal(t, 0, q.len())
}
