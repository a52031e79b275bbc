// Package simclock is the command loop / logical clock (spec §4.G). It
// owns the tick counter, dispatches each parsed command to the catalog,
// warehouse, scheduler or courier, and fires the courier dispatch check
// before the command at a qualifying tick is processed.
//
// Grounded on main.go's fx composition root: the teacher assembles an
// fx.App whose fx.Invoke(server.Start) attaches an HTTP listener to the
// fx lifecycle. Here fx.Invoke instead runs Clock.Run to completion
// synchronously — there is no listener, no lifecycle hook, just a
// read-to-EOF batch loop, since the whole point of this rewrite is that
// spec §5 rules out concurrency and spec §1 rules out network I/O.
package simclock

import (
	"io"

	"go.uber.org/zap"

	"github.com/mrossi/pasticceria/internal/catalog"
	"github.com/mrossi/pasticceria/internal/courier"
	"github.com/mrossi/pasticceria/internal/protocol"
	"github.com/mrossi/pasticceria/internal/scheduler"
	"github.com/mrossi/pasticceria/internal/simerr"
	"github.com/mrossi/pasticceria/internal/warehouse"
)

// Clock drives the simulation: it owns the tick counter and wires every
// command to its handling component.
type Clock struct {
	catalog   *catalog.Catalog
	warehouse *warehouse.Warehouse
	scheduler *scheduler.Scheduler
	courier   *courier.Courier
	log       *zap.Logger
}

// New wires a Clock from already-constructed components plus the
// dispatch truck's capacity.
func New(cat *catalog.Catalog, wh *warehouse.Warehouse, sched *scheduler.Scheduler, capacity int64, log *zap.Logger) *Clock {
	return &Clock{
		catalog:   cat,
		warehouse: wh,
		scheduler: sched,
		courier:   courier.New(cat, sched.Ready(), capacity, log),
		log:       log.Named("clock"),
	}
}

// Run reads commands from reader until EOF, dispatching each and firing
// the courier at every qualifying tick (spec §4.F, §4.G), including once
// more after the last command if the final tick qualifies. It returns
// nil on clean EOF (spec §6: "Exit code: 0 on clean EOF") or the first
// *simerr.Fatal encountered.
func (c *Clock) Run(reader *protocol.Reader, writer *protocol.Writer, periodicity int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if fatal, ok := r.(*simerr.Fatal); ok {
				err = fatal
				return
			}
			err = simerr.NewFatal("%v", r)
		}
	}()

	var tick int64
	for {
		if tick > 0 && tick%periodicity == 0 {
			c.dispatch(writer)
		}

		cmd, rerr := reader.Next()
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}

		c.process(cmd, tick, writer)
		tick++
	}
}

func (c *Clock) dispatch(writer *protocol.Writer) {
	c.courier.Dispatch(writer.Underlying(), c.scheduler.ReleaseDispatched)
}

func (c *Clock) process(cmd protocol.Command, tick int64, writer *protocol.Writer) {
	switch cmd.Kind {
	case protocol.AddRecipe:
		c.handleAddRecipe(cmd, writer)
	case protocol.RemoveRecipe:
		c.handleRemoveRecipe(cmd, writer)
	case protocol.Replenishment:
		c.handleReplenishment(cmd, tick, writer)
	case protocol.PlaceOrder:
		c.handlePlaceOrder(cmd, tick, writer)
	default:
		panic(simerr.NewFatal("unhandled command kind %d", cmd.Kind))
	}
}

func (c *Clock) handleAddRecipe(cmd protocol.Command, writer *protocol.Writer) {
	if _, exists := c.catalog.Lookup(cmd.RecipeName); exists {
		writer.Line("ignorato")
		return
	}

	reqs := make([]catalog.Requirement, len(cmd.Ingredients))
	for i, iq := range cmd.Ingredients {
		reqs[i] = catalog.Requirement{Ingredient: iq.Ingredient, QtyPerUnit: iq.Qty}
	}
	c.catalog.Add(&catalog.Recipe{Name: cmd.RecipeName, Requirements: reqs})
	c.log.Debug("recipe added", zap.String("name", cmd.RecipeName))
	writer.Line("aggiunta")
}

func (c *Clock) handleRemoveRecipe(cmd protocol.Command, writer *protocol.Writer) {
	switch c.catalog.Remove(cmd.RecipeName) {
	case catalog.RemoveNotPresent:
		writer.Line("non presente")
	case catalog.RemovePending:
		writer.Line("ordini in sospeso")
	case catalog.RemoveOK:
		writer.Line("rimossa")
	}
}

func (c *Clock) handleReplenishment(cmd protocol.Command, tick int64, writer *protocol.Writer) {
	c.warehouse.Replenish(tick, cmd.Triples)
	writer.Line("rifornito")
	c.scheduler.Promote(tick)
}

func (c *Clock) handlePlaceOrder(cmd protocol.Command, tick int64, writer *protocol.Writer) {
	decision := c.scheduler.AcceptOrder(tick, cmd.RecipeName, cmd.OrderQty)
	if decision == scheduler.Rejected {
		writer.Line("rifiutato")
		return
	}
	writer.Line("accettato")
}
