package dispatch

import (
	"container/heap"
	"iter"

	"github.com/kilianp07/rescue/core/model"
)

// zoneQueue is a max-heap of areas by severity. Equal severities pop in
// descending name order.
type zoneQueue []model.AreaSnapshot

func (q zoneQueue) Len() int { return len(q) }

func (q zoneQueue) Less(i, j int) bool {
	if q[i].Severity != q[j].Severity {
		return q[i].Severity > q[j].Severity
	}
	return q[i].Name > q[j].Name
}

func (q zoneQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *zoneQueue) Push(x any) { *q = append(*q, x.(model.AreaSnapshot)) }

func (q *zoneQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// newZoneQueue keeps the areas that need rescue.
func newZoneQueue(areas iter.Seq[model.AreaSnapshot]) *zoneQueue {
	q := &zoneQueue{}
	for a := range areas {
		if a.Severity > 0 {
			*q = append(*q, a)
		}
	}
	heap.Init(q)
	return q
}

func (q *zoneQueue) next() model.AreaSnapshot {
	return heap.Pop(q).(model.AreaSnapshot)
}
