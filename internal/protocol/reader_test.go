package protocol

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	r := NewReader(strings.NewReader("3 100\n"))
	h, err := r.ReadHeader()
	require.NoError(t, err)
	assert.EqualValues(t, 3, h.Periodicity)
	assert.EqualValues(t, 100, h.Capacity)
}

func TestNextParsesEachCommandKind(t *testing.T) {
	input := strings.Join([]string{
		"aggiungi_ricetta torta farina 10 zucchero 5",
		"rimuovi_ricetta torta",
		"rifornimento farina 10 50 zucchero 5 50",
		"ordine torta 2",
	}, "\n") + "\n"
	r := NewReader(strings.NewReader(input))

	cmd, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, AddRecipe, cmd.Kind)
	assert.Equal(t, "torta", cmd.RecipeName)
	assert.Equal(t, []IngredientQty{{Ingredient: "farina", Qty: 10}, {Ingredient: "zucchero", Qty: 5}}, cmd.Ingredients)

	cmd, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, RemoveRecipe, cmd.Kind)
	assert.Equal(t, "torta", cmd.RecipeName)

	cmd, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, Replenishment, cmd.Kind)
	require.Len(t, cmd.Triples, 2)
	assert.Equal(t, "farina", cmd.Triples[0].Ingredient)
	assert.EqualValues(t, 10, cmd.Triples[0].Quantity)
	assert.EqualValues(t, 50, cmd.Triples[0].Expiration)

	cmd, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, PlaceOrder, cmd.Kind)
	assert.Equal(t, "torta", cmd.RecipeName)
	assert.EqualValues(t, 2, cmd.OrderQty)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNextRejectsUnknownKeyword(t *testing.T) {
	r := NewReader(strings.NewReader("balla_la_samba\n"))
	_, err := r.Next()
	assert.Error(t, err)
}

func TestNextToleratesBlankLines(t *testing.T) {
	r := NewReader(strings.NewReader("\n\nordine torta 1\n"))
	cmd, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, PlaceOrder, cmd.Kind)
}
