package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrossi/pasticceria/internal/catalog"
	"github.com/mrossi/pasticceria/internal/warehouse"
)

func newTestScheduler(t *testing.T) (*Scheduler, *catalog.Catalog, *warehouse.Warehouse) {
	cat := catalog.New()
	require.True(t, cat.Add(&catalog.Recipe{
		Name:         "torta",
		Requirements: []catalog.Requirement{{Ingredient: "farina", QtyPerUnit: 10}, {Ingredient: "zucchero", QtyPerUnit: 5}},
	}))
	wh := warehouse.New()
	return New(cat, wh, zap.NewNop()), cat, wh
}

func TestAcceptOrderRejectsUnknownRecipe(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	assert.Equal(t, Rejected, s.AcceptOrder(0, "ghost", 1))
}

func TestAcceptOrderReadyWhenFeasible(t *testing.T) {
	s, _, wh := newTestScheduler(t)
	wh.Replenish(0, []warehouse.Replenishment{
		{Ingredient: "farina", Quantity: 100, Expiration: 100},
		{Ingredient: "zucchero", Quantity: 100, Expiration: 100},
	})

	assert.Equal(t, Ready, s.AcceptOrder(1, "torta", 1))
	assert.Equal(t, 1, s.Ready().Len())
	assert.Equal(t, 0, s.Wait().Len())
	assert.EqualValues(t, 90, wh.Stock("farina", 1))
}

func TestAcceptOrderWaitsWhenInfeasible(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	assert.Equal(t, Waiting, s.AcceptOrder(1, "torta", 1))
	assert.Equal(t, 0, s.Ready().Len())
	assert.Equal(t, 1, s.Wait().Len())
}

// S6 — promotion after restock: O1 waits at tick 2 for lack of sugar;
// rifornimento for zucchero at tick 4; after rifornito, the ready queue
// contains O1 at the position matching arrival 2.
func TestPromoteMovesSatisfiableWaitingOrder(t *testing.T) {
	s, _, wh := newTestScheduler(t)
	wh.Replenish(0, []warehouse.Replenishment{{Ingredient: "farina", Quantity: 100, Expiration: 100}})

	assert.Equal(t, Waiting, s.AcceptOrder(2, "torta", 1))

	wh.Replenish(4, []warehouse.Replenishment{{Ingredient: "zucchero", Quantity: 1000, Expiration: 100}})
	s.Promote(4)

	require.Equal(t, 0, s.Wait().Len())
	require.Equal(t, 1, s.Ready().Len())
	assert.EqualValues(t, 2, s.Ready().Snapshot()[0].ArrivalTick)
}

func TestPromoteLeavesInfeasibleLargerOrderWaiting(t *testing.T) {
	s, _, wh := newTestScheduler(t)
	// only enough zucchero for the smaller order, not the larger one
	wh.Replenish(0, []warehouse.Replenishment{{Ingredient: "farina", Quantity: 1000, Expiration: 100}})

	assert.Equal(t, Waiting, s.AcceptOrder(1, "torta", 5)) // needs 25 zucchero
	assert.Equal(t, Waiting, s.AcceptOrder(2, "torta", 2)) // needs 10 zucchero

	wh.Replenish(3, []warehouse.Replenishment{{Ingredient: "zucchero", Quantity: 12, Expiration: 100}})
	s.Promote(3)

	require.Equal(t, 1, s.Ready().Len())
	assert.EqualValues(t, 2, s.Ready().Snapshot()[0].ArrivalTick)
	require.Equal(t, 1, s.Wait().Len())
	assert.EqualValues(t, 1, s.Wait().Snapshot()[0].ArrivalTick)
}

func TestPromoteIsOrderStableAmongStillWaiting(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	assert.Equal(t, Waiting, s.AcceptOrder(1, "torta", 1))
	assert.Equal(t, Waiting, s.AcceptOrder(2, "torta", 1))
	assert.Equal(t, Waiting, s.AcceptOrder(3, "torta", 1))

	s.Promote(4) // still nothing in the warehouse

	require.Equal(t, 3, s.Wait().Len())
	ticks := []int64{
		s.Wait().Snapshot()[0].ArrivalTick,
		s.Wait().Snapshot()[1].ArrivalTick,
		s.Wait().Snapshot()[2].ArrivalTick,
	}
	assert.Equal(t, []int64{1, 2, 3}, ticks)
}
