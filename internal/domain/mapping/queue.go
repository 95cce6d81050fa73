package mapping

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/turtacn/bondmap/internal/domain/molecule"
)

// queueItem is a matched pair whose neighbours have not been explored yet.
type queueItem struct {
	pre  *molecule.Atom
	post *molecule.Atom
}

// workQueue is a strict FIFO. Processing order decides which atoms are
// matched deterministically and which fall through to inference, so items
// are never reordered.
type workQueue struct {
	q *linkedlistqueue.Queue
}

func newWorkQueue() *workQueue {
	return &workQueue{q: linkedlistqueue.New()}
}

func (w *workQueue) push(pre, post *molecule.Atom) {
	w.q.Enqueue(queueItem{pre: pre, post: post})
}

func (w *workQueue) pop() (queueItem, bool) {
	v, ok := w.q.Dequeue()
	if !ok {
		return queueItem{}, false
	}
	return v.(queueItem), true
}

func (w *workQueue) len() int { return w.q.Size() }
