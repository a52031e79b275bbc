// Package order defines the Order record and the ready/wait queues that
// hold it (spec §3, §4.D). Unlike the teacher's kitchen.Order, there is
// no decay model here: an order's only mutable property is which queue
// holds it, so this package only tracks identity and arrival time.
package order

import "github.com/mrossi/pasticceria/internal/catalog"

// Order is one accepted request for qty units of a recipe, recorded with
// the tick at which it arrived (spec §4.D).
type Order struct {
	Recipe      string
	Quantity    int32
	ArrivalTick int64
}

// Weight is the total ingredient mass of the order: sum over the recipe's
// requirements of qty_per_unit * quantity (spec §3). The recipe is looked
// up fresh each time since recipes are immutable while referenced, so the
// value can never change between computations for a live order.
func (o *Order) Weight(recipe *catalog.Recipe) int64 {
	var total int64
	for _, req := range recipe.Requirements {
		total += int64(req.QtyPerUnit) * int64(o.Quantity)
	}
	return total
}

// WaitQueue is a plain FIFO by insertion order (== arrival tick, since
// arrivals are monotonic). An order appears at most once.
type WaitQueue struct {
	orders []*Order
}

// NewWaitQueue returns an empty wait queue.
func NewWaitQueue() *WaitQueue {
	return &WaitQueue{}
}

// PushBack appends an order to the tail.
func (q *WaitQueue) PushBack(o *Order) {
	q.orders = append(q.orders, o)
}

// Snapshot returns the current wait-queue contents head-to-tail. The
// returned slice must not be retained across mutation of the queue.
func (q *WaitQueue) Snapshot() []*Order {
	return q.orders
}

// Len returns the number of waiting orders.
func (q *WaitQueue) Len() int {
	return len(q.orders)
}

// RemoveAt deletes the order at index i (as returned by Snapshot),
// preserving the relative order of everything else.
func (q *WaitQueue) RemoveAt(i int) {
	q.orders = append(q.orders[:i], q.orders[i+1:]...)
}

// Reset replaces the queue's contents wholesale, preserving the order of
// the given slice. Used by the promotion pass, which computes the full
// set of orders that remain waiting in one pass and installs it in one
// step rather than removing elements one at a time.
func (q *WaitQueue) Reset(orders []*Order) {
	q.orders = orders
}

// ReadyQueue is sorted by ascending arrival_tick (spec §3); insertion
// preserves this invariant. An order ready on direct acceptance (arrival
// == current tick, i.e. always the maximum so far) goes to the tail; an
// order promoted from the wait queue can have arrived before orders
// already in the ready queue and then lands further toward the head.
// InsertSorted does a proper ordered insert so the invariant holds
// regardless of call pattern.
type ReadyQueue struct {
	orders []*Order
}

// NewReadyQueue returns an empty ready queue.
func NewReadyQueue() *ReadyQueue {
	return &ReadyQueue{}
}

// InsertSorted inserts o at the position that keeps the queue sorted by
// ascending ArrivalTick, ties broken by insertion (stable) order.
func (q *ReadyQueue) InsertSorted(o *Order) {
	i := len(q.orders)
	for i > 0 && q.orders[i-1].ArrivalTick > o.ArrivalTick {
		i--
	}
	q.orders = append(q.orders, nil)
	copy(q.orders[i+1:], q.orders[i:])
	q.orders[i] = o
}

// Snapshot returns the current ready-queue contents head-to-tail. The
// returned slice must not be retained across mutation of the queue.
func (q *ReadyQueue) Snapshot() []*Order {
	return q.orders
}

// Len returns the number of ready orders.
func (q *ReadyQueue) Len() int {
	return len(q.orders)
}

// RemovePrefix deletes the first n orders (used by the courier to remove
// a dispatched selection, which is always a head prefix of the ready
// queue per spec §4.F).
func (q *ReadyQueue) RemovePrefix(n int) {
	q.orders = q.orders[n:]
}
