// Package warehouse implements the per-ingredient lot store: FEFO
// (first-expire-first-out) consumption with lazy expiration (spec §4.C).
//
// The container shape is grounded on kitchen/shelf.go's Shelf interface
// (a map-backed, Put/Get/Remove collection keyed by id); here the key is
// an ingredient name and the value is an ordered slice of lots rather than
// a single order, since the warehouse is a genuine multi-entry store
// (spec §4.A: "the warehouse permits [duplicate keys], one per distinct
// expiration per ingredient").
package warehouse

import (
	"sort"

	"github.com/mrossi/pasticceria/internal/catalog"
	"github.com/mrossi/pasticceria/internal/store"
)

// Lot is one batch of an ingredient: a quantity that expires at a given
// tick. A lot is alive at tick t iff Expiration > t (spec §3).
type Lot struct {
	Quantity   int32
	Expiration int64
}

// Replenishment is one (name, qty, expiration) triple from a rifornimento
// line (spec §4.C).
type Replenishment struct {
	Ingredient string
	Quantity   int32
	Expiration int64
}

// Warehouse is the ingredient-name -> ordered-lot-list store.
type Warehouse struct {
	lots *store.MultiStore[string, *Lot]
}

// New returns an empty Warehouse.
func New() *Warehouse {
	return &Warehouse{lots: store.NewMultiStore[string, *Lot]()}
}

// purge removes dead lots (expiration <= tick) from name's lot list and
// returns the live, ascending-expiration-ordered remainder. This is the
// "lazy purge" of spec §4.C step 1 and §9 — expired lots are evicted the
// next time their slot is traversed, not on a schedule.
func (w *Warehouse) purge(name string, tick int64) []*Lot {
	lots := w.lots.EntriesFor(name)
	if len(lots) == 0 {
		return nil
	}
	live := lots[:0]
	for _, l := range lots {
		if l.Expiration > tick {
			live = append(live, l)
		}
	}
	w.lots.Put(name, live)
	return live
}

// Stock returns the current alive quantity of an ingredient at tick,
// purging dead lots as a side effect.
func (w *Warehouse) Stock(name string, tick int64) int64 {
	var total int64
	for _, l := range w.purge(name, tick) {
		total += int64(l.Quantity)
	}
	return total
}

// Replenish applies a batch of triples from one rifornimento line, in
// order, per spec §4.C:
//   - triples already expired on arrival (expiration <= tick) are dropped
//     silently;
//   - a triple matching an existing live lot's (name, expiration) has its
//     quantity coalesced into that lot;
//   - otherwise a new lot is inserted, kept in ascending-expiration order.
func (w *Warehouse) Replenish(tick int64, triples []Replenishment) {
	for _, t := range triples {
		if t.Expiration <= tick {
			continue
		}
		lots := w.purge(t.Ingredient, tick)
		merged := false
		for _, l := range lots {
			if l.Expiration == t.Expiration {
				l.Quantity += t.Quantity
				merged = true
				break
			}
		}
		if !merged {
			lots = append(lots, &Lot{Quantity: t.Quantity, Expiration: t.Expiration})
			sort.SliceStable(lots, func(i, j int) bool {
				return lots[i].Expiration < lots[j].Expiration
			})
		}
		w.lots.Put(t.Ingredient, lots)
	}
}

// Feasible reports whether qty units of recipe could be consumed right
// now (tick), without mutating any stock. It walks the same lot lists
// Consume would, per spec §4.C's "feasibility and deduction together are
// atomic" contract — this is the read-only half of that contract.
func (w *Warehouse) Feasible(tick int64, recipe *catalog.Recipe, qty int32) bool {
	for _, req := range recipe.Requirements {
		need := int64(req.QtyPerUnit) * int64(qty)
		if w.Stock(req.Ingredient, tick) < need {
			return false
		}
	}
	return true
}

// Consume deducts qty units of recipe's requirements from the warehouse
// at tick, assuming Feasible has already returned true for the same
// arguments and the warehouse has not changed since. It always succeeds
// under that precondition. Traversal is FEFO: each requirement's alive
// lots are consumed in ascending-expiration order, and a lot reaching
// zero is removed immediately (spec §3 invariant 4).
func (w *Warehouse) Consume(tick int64, recipe *catalog.Recipe, qty int32) {
	for _, req := range recipe.Requirements {
		need := int64(req.QtyPerUnit) * int64(qty)
		lots := w.purge(req.Ingredient, tick)
		remaining := lots[:0]
		for _, l := range lots {
			if need <= 0 {
				remaining = append(remaining, l)
				continue
			}
			take := int64(l.Quantity)
			if take > need {
				take = need
			}
			l.Quantity -= int32(take)
			need -= take
			if l.Quantity > 0 {
				remaining = append(remaining, l)
			}
		}
		w.lots.Put(req.Ingredient, remaining)
	}
}

// TryConsume performs the feasibility check and, only if it succeeds,
// the deduction, as a single atomic step (spec §4.C, §4.E). It reports
// whether the order could be fulfilled.
func (w *Warehouse) TryConsume(tick int64, recipe *catalog.Recipe, qty int32) bool {
	if !w.Feasible(tick, recipe, qty) {
		return false
	}
	w.Consume(tick, recipe, qty)
	return true
}
