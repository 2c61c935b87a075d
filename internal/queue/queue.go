// Package queue provides a bounded heap that keeps the best scored items.
package queue

import "math"

// Item is a dictionary index and its similarity score.
type Item struct {
	Index int
	Score float64
}

// Bounded keeps the n best items pushed into it. It is a heap whose top is
// the worst item kept, so a new item only has to beat the top.
//
// Ties are broken towards the lower index and NaN scores rank below every
// number. A Bounded is not safe for concurrent use.
type Bounded struct {
	n      int
	higher bool
	items  []Item
}

// NewBounded returns a queue keeping the n largest scores when higherIsBetter
// is set and the n smallest otherwise.
func NewBounded(n int, higherIsBetter bool) *Bounded {
	n = max(n, 0)
	return &Bounded{
		n:      n,
		higher: higherIsBetter,
		items:  make([]Item, 0, n),
	}
}

// Len returns the number of items kept.
func (q *Bounded) Len() int { return len(q.items) }

// Cap returns the maximum number of items kept.
func (q *Bounded) Cap() int { return q.n }

// Reset empties the queue for reuse.
func (q *Bounded) Reset() {
	q.items = q.items[:0]
}

// Worst returns the item that the next push has to beat.
func (q *Bounded) Worst() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return q.items[0], true
}

// Push offers an item. It reports whether the item was kept.
func (q *Bounded) Push(index int, score float64) bool {
	item := Item{Index: index, Score: score}
	if len(q.items) < q.n {
		q.items = append(q.items, item)
		q.siftUp(len(q.items) - 1)
		return true
	}
	if q.n == 0 || !q.better(item, q.items[0]) {
		return false
	}
	q.items[0] = item
	q.siftDown(0)
	return true
}

// Drain appends the kept items to dst, best first, and empties the queue.
func (q *Bounded) Drain(dst []Item) []Item {
	start := len(dst)
	dst = append(dst, make([]Item, len(q.items))...)
	for i := len(dst) - 1; i >= start; i-- {
		dst[i] = q.pop()
	}
	return dst
}

func (q *Bounded) pop() Item {
	n := len(q.items)
	top := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]
	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return top
}

// better reports whether a ranks above b.
func (q *Bounded) better(a, b Item) bool {
	aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
	switch {
	case aNaN && bNaN:
		return a.Index < b.Index
	case aNaN:
		return false
	case bNaN:
		return true
	case a.Score == b.Score:
		return a.Index < b.Index
	case q.higher:
		return a.Score > b.Score
	default:
		return a.Score < b.Score
	}
}

// less orders the heap with the worst item on top.
func (q *Bounded) less(i, j int) bool {
	return q.better(q.items[j], q.items[i])
}

func (q *Bounded) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.less(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *Bounded) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		worst := l
		if r := l + 1; r < n && q.less(r, l) {
			worst = r
		}
		if !q.less(worst, i) {
			return
		}
		q.items[i], q.items[worst] = q.items[worst], q.items[i]
		i = worst
	}
}
