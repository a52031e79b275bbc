package courier

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrossi/pasticceria/internal/catalog"
	"github.com/mrossi/pasticceria/internal/order"
)

func setup(t *testing.T, weight int32) (*catalog.Catalog, *order.ReadyQueue) {
	cat := catalog.New()
	require.True(t, cat.Add(&catalog.Recipe{
		Name:         "unit",
		Requirements: []catalog.Requirement{{Ingredient: "x", QtyPerUnit: weight}},
	}))
	return cat, order.NewReadyQueue()
}

func TestDispatchEmptyWhenNothingFits(t *testing.T) {
	cat, ready := setup(t, 1)
	c := New(cat, ready, 10, zap.NewNop())
	var buf bytes.Buffer

	c.Dispatch(&buf, func(*order.Order) {})
	assert.Equal(t, "camioncino vuoto\n", buf.String())
}

// S2 — dispatch ordering by weight: order A (weight 30, arrival 1) and B
// (weight 50, arrival 2) both fit; output lists B before A.
func TestDispatchOrdersByWeightDescending(t *testing.T) {
	cat, ready := setup(t, 1)
	ready.InsertSorted(&order.Order{Recipe: "unit", Quantity: 30, ArrivalTick: 1})
	ready.InsertSorted(&order.Order{Recipe: "unit", Quantity: 50, ArrivalTick: 2})

	c := New(cat, ready, 100, zap.NewNop())
	var buf bytes.Buffer
	c.Dispatch(&buf, func(*order.Order) {})

	assert.Equal(t, "2 unit 50\n1 unit 30\n", buf.String())
}

// S3 — capacity boundary: three ready orders weight 40/40/40 in arrival
// order, capacity 100: first two fit (sum 80), third does not (would
// reach 120), and is not substituted by a smaller later order.
func TestDispatchCapacityBoundaryNoSubstitution(t *testing.T) {
	cat, ready := setup(t, 1)
	ready.InsertSorted(&order.Order{Recipe: "unit", Quantity: 40, ArrivalTick: 1})
	ready.InsertSorted(&order.Order{Recipe: "unit", Quantity: 40, ArrivalTick: 2})
	ready.InsertSorted(&order.Order{Recipe: "unit", Quantity: 40, ArrivalTick: 3})
	ready.InsertSorted(&order.Order{Recipe: "unit", Quantity: 5, ArrivalTick: 4}) // would fit alone, must not be substituted

	c := New(cat, ready, 100, zap.NewNop())
	var buf bytes.Buffer
	c.Dispatch(&buf, func(*order.Order) {})

	assert.Equal(t, "1 unit 40\n2 unit 40\n", buf.String())
	require.Equal(t, 2, ready.Len())
	assert.EqualValues(t, 3, ready.Snapshot()[0].ArrivalTick)
}

func TestDispatchRemovesSelectedAndReleases(t *testing.T) {
	cat, ready := setup(t, 1)
	ready.InsertSorted(&order.Order{Recipe: "unit", Quantity: 1, ArrivalTick: 1})

	c := New(cat, ready, 100, zap.NewNop())
	var buf bytes.Buffer
	released := 0
	c.Dispatch(&buf, func(*order.Order) { released++ })

	assert.Equal(t, 0, ready.Len())
	assert.Equal(t, 1, released)
}
