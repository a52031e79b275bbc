// Package courier implements the capacity-bounded dispatch selector
// (spec §4.F). It has no direct analogue in the teacher repo; it is built
// in the teacher's idiom (a plain struct holding its dependencies, a single
// Dispatch method, sort.SliceStable for reordering — compare kitchen.go's
// shelvesAsc/shelvesDesc construction) and grounded on the capacity-bound
// batch-selection shape of the OpenERP FEFO outbound strategy example.
package courier

import (
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/mrossi/pasticceria/internal/catalog"
	"github.com/mrossi/pasticceria/internal/order"
	"github.com/mrossi/pasticceria/internal/simerr"
)

// Courier selects and prints ready orders that fit one truck's capacity.
type Courier struct {
	catalog  *catalog.Catalog
	ready    *order.ReadyQueue
	capacity int64
	log      *zap.Logger
}

// New returns a Courier bound to the given ready queue and truck capacity.
func New(cat *catalog.Catalog, ready *order.ReadyQueue, capacity int64, log *zap.Logger) *Courier {
	return &Courier{catalog: cat, ready: ready, capacity: capacity, log: log.Named("courier")}
}

// ReleaseFunc is called for every dispatched order so the catalog no longer
// counts it as a live reference (letting an otherwise-unreferenced recipe
// become removable). The caller passes it to Dispatch (simclock passes
// scheduler.ReleaseDispatched).
type ReleaseFunc func(o *order.Order)

// Dispatch runs one courier dispatch (spec §4.F):
//  1. walk the ready queue head-to-tail, accumulating weight, stopping at
//     the first order whose inclusion would exceed capacity;
//  2. if nothing was selected, print "camioncino vuoto";
//  3. otherwise reorder the selection by weight descending, arrival
//     ascending, print each line, and remove the selection from the ready
//     queue.
func (c *Courier) Dispatch(w io.Writer, release ReleaseFunc) {
	orders := c.ready.Snapshot()

	type weighted struct {
		order  *order.Order
		weight int64
	}

	var running int64
	selected := make([]weighted, 0, len(orders))
	for _, o := range orders {
		recipe, ok := c.catalog.Lookup(o.Recipe)
		if !ok {
			panic(simerr.NewFatal("ready order for recipe %q references a recipe no longer in the catalog", o.Recipe))
		}
		weight := o.Weight(recipe)
		if running+weight > c.capacity {
			break
		}
		running += weight
		selected = append(selected, weighted{order: o, weight: weight})
	}

	if len(selected) == 0 {
		fmt.Fprintln(w, "camioncino vuoto")
		return
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].weight != selected[j].weight {
			return selected[i].weight > selected[j].weight
		}
		return selected[i].order.ArrivalTick < selected[j].order.ArrivalTick
	})

	for _, s := range selected {
		fmt.Fprintf(w, "%d %s %d\n", s.order.ArrivalTick, s.order.Recipe, s.order.Quantity)
		release(s.order)
	}

	c.log.Debug("dispatched", zap.Int("count", len(selected)), zap.Int64("running_weight", running))
	c.ready.RemovePrefix(len(selected))
}
