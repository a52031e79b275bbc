// Package scheduler classifies incoming orders as ready or waiting and
// promotes waiting orders after each restock (spec §4.E).
//
// The ready/waiting decision and the promotion walk are grounded on
// kitchen.go's Kitchen.SetOrderReady and decayMinimizer: both walk a
// candidate list looking for the first spot an order fits, and both
// either commit the placement or leave the order where it was. Here
// "fits" means warehouse feasibility rather than shelf capacity/decay.
package scheduler

import (
	"go.uber.org/zap"

	"github.com/mrossi/pasticceria/internal/catalog"
	"github.com/mrossi/pasticceria/internal/order"
	"github.com/mrossi/pasticceria/internal/simerr"
	"github.com/mrossi/pasticceria/internal/warehouse"
)

// Decision is the outcome of AcceptOrder, one of ready or waiting.
type Decision int

const (
	// Rejected: the recipe does not exist in the catalog.
	Rejected Decision = iota
	// Ready: stock was feasible and has been reserved.
	Ready
	// Waiting: stock was insufficient; the order now waits.
	Waiting
)

// Scheduler owns the catalog, warehouse, and the two order queues, and
// implements the scheduling and promotion procedures of spec §4.E.
type Scheduler struct {
	catalog   *catalog.Catalog
	warehouse *warehouse.Warehouse
	wait      *order.WaitQueue
	ready     *order.ReadyQueue
	log       *zap.Logger
}

// New returns a Scheduler wired to the given catalog and warehouse.
func New(cat *catalog.Catalog, wh *warehouse.Warehouse, log *zap.Logger) *Scheduler {
	return &Scheduler{
		catalog:   cat,
		warehouse: wh,
		wait:      order.NewWaitQueue(),
		ready:     order.NewReadyQueue(),
		log:       log.Named("scheduler"),
	}
}

// Ready returns the ready queue, for the courier to consume.
func (s *Scheduler) Ready() *order.ReadyQueue { return s.ready }

// Wait returns the wait queue, mainly for inspection in tests.
func (s *Scheduler) Wait() *order.WaitQueue { return s.wait }

// AcceptOrder implements the "ordine" command of spec §4.E/§4.G: look up
// the recipe, and if it exists, classify the order as ready (stock
// reserved immediately) or waiting (appended to the wait queue tail).
func (s *Scheduler) AcceptOrder(tick int64, recipeName string, qty int32) Decision {
	recipe, ok := s.catalog.Lookup(recipeName)
	if !ok {
		return Rejected
	}

	o := &order.Order{Recipe: recipeName, Quantity: qty, ArrivalTick: tick}
	s.catalog.Reference(recipeName)

	if s.warehouse.TryConsume(tick, recipe, qty) {
		s.ready.InsertSorted(o)
		s.log.Debug("order reserved", zap.String("recipe", recipeName), zap.Int32("qty", qty), zap.Int64("tick", tick))
		return Ready
	}

	s.wait.PushBack(o)
	s.log.Debug("order waiting", zap.String("recipe", recipeName), zap.Int32("qty", qty), zap.Int64("tick", tick))
	return Waiting
}

// Promote runs the wait-queue promotion pass (spec §4.E), invoked once at
// the end of every rifornimento. It walks the wait queue head to tail,
// attempting feasibility+deduction against the current (already
// restocked) warehouse. A promoted order moves to the ready queue at the
// position matching its arrival tick.
//
// The monotone-skip optimization (spec §4.E): feasibility for a fixed
// recipe is monotone in order quantity while the warehouse is held fixed
// during the skip decision, which holds here because no new lots arrive
// mid-pass (spec §9). So once a quantity is known infeasible for a
// recipe, any later waiting order for that recipe with quantity >= that
// minimum is skipped without a feasibility check.
func (s *Scheduler) Promote(tick int64) {
	infeasibleFloor := make(map[string]int32)

	waiting := s.wait.Snapshot()
	kept := waiting[:0]
	for _, o := range waiting {
		floor, seen := infeasibleFloor[o.Recipe]
		if seen && o.Quantity >= floor {
			kept = append(kept, o)
			continue
		}

		recipe, ok := s.catalog.Lookup(o.Recipe)
		if !ok {
			// A waiting order's recipe cannot have been removed: removal is
			// refused while any order references it (spec §3 invariant 5,
			// §4.E edge cases). Reaching here means that invariant broke.
			panic(simerr.NewFatal("waiting order for recipe %q references a recipe no longer in the catalog", o.Recipe))
		}

		if s.warehouse.TryConsume(tick, recipe, o.Quantity) {
			s.ready.InsertSorted(o)
			s.log.Debug("order promoted", zap.String("recipe", o.Recipe), zap.Int32("qty", o.Quantity), zap.Int64("arrival", o.ArrivalTick))
			continue
		}

		if !seen || o.Quantity < floor {
			infeasibleFloor[o.Recipe] = o.Quantity
		}
		kept = append(kept, o)
	}

	// Promotion is order-stable among orders that remain waiting (spec §8):
	// kept preserves the relative order of everything not promoted.
	s.wait.Reset(kept)
}

// ReleaseDispatched tells the catalog that a dispatched order no longer
// references its recipe, allowing a since-unreferenced recipe to later
// be removed.
func (s *Scheduler) ReleaseDispatched(o *order.Order) {
	s.catalog.Release(o.Recipe)
}
