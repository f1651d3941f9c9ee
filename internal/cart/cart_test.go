package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(itemID string, qty int, instructions string, variations ...string) Candidate {
	return Candidate{
		ItemID:              itemID,
		Name:                "Masala Omelette",
		BasePrice:           100,
		UnitPrice:           decimal.NewFromInt(100),
		Variations:          variations,
		SpecialInstructions: instructions,
		Quantity:            qty,
	}
}

func TestAddItem_MergesIdenticalCandidates(t *testing.T) {
	c := New()

	k1 := c.AddItem(candidate("omelette", 1, "", "Cheese", "Onion"))
	k2 := c.AddItem(candidate("omelette", 2, "", "Onion", "Cheese"))
	k3 := c.AddItem(candidate("omelette", 3, "", "Cheese", "Onion"))

	assert.Equal(t, k1, k2)
	assert.Equal(t, k1, k3)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 6, c.Items()[0].Quantity)
	assert.Equal(t, 6, c.ItemCount())
}

func TestAddItem_DistinctCombinations(t *testing.T) {
	c := New()

	c.AddItem(candidate("omelette", 1, ""))
	c.AddItem(candidate("omelette", 1, "", "Cheese"))
	c.AddItem(candidate("omelette", 1, "no salt", "Cheese"))
	c.AddItem(candidate("dosa", 1, "", "Cheese"))
	c.AddItem(candidate("omelette", 1, "", "Cheese", "Onion"))

	assert.Equal(t, 5, c.Len())
	assert.Equal(t, 5, c.ItemCount())
}

func TestAddItem_MergeKeepsFirstLineFields(t *testing.T) {
	c := New()
	c.AddItem(candidate("omelette", 1, "", "Cheese"))

	second := candidate("omelette", 1, "", "Cheese")
	second.Name = "Renamed"
	second.UnitPrice = decimal.NewFromInt(999)
	c.AddItem(second)

	line := c.Items()[0]
	assert.Equal(t, "Masala Omelette", line.Name)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, line.Quantity)
}

func TestAddItem_ClampsNonPositiveQuantity(t *testing.T) {
	c := New()

	key := c.AddItem(candidate("toast", 0, ""))
	line, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)

	c.AddItem(candidate("toast", -4, ""))
	line, _ = c.Get(key)
	assert.Equal(t, 2, line.Quantity)
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	c := New()
	c.AddItem(candidate("a", 1, ""))
	c.AddItem(candidate("b", 1, ""))
	c.AddItem(candidate("a", 1, ""))
	c.AddItem(candidate("c", 1, ""))

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].ItemID, items[1].ItemID, items[2].ItemID})
}

func TestRemoveItem(t *testing.T) {
	c := New()
	key := c.AddItem(candidate("toast", 2, ""))
	c.AddItem(candidate("juice", 1, ""))

	c.RemoveItem("missing")
	assert.Equal(t, 2, c.Len())

	c.RemoveItem(key)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantLen  int
		wantQty  int
	}{
		{name: "sets directly", quantity: 7, wantLen: 1, wantQty: 7},
		{name: "zero removes", quantity: 0, wantLen: 0},
		{name: "negative removes", quantity: -3, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			key := c.AddItem(candidate("toast", 2, ""))

			c.UpdateQuantity(key, tt.quantity)

			assert.Equal(t, tt.wantLen, c.Len())
			if tt.wantLen > 0 {
				line, _ := c.Get(key)
				assert.Equal(t, tt.wantQty, line.Quantity)
			}
		})
	}
}

func TestUpdateQuantity_UnknownKeyIsNoop(t *testing.T) {
	c := New()
	c.AddItem(candidate("toast", 2, ""))
	before := c.Version()

	c.UpdateQuantity("missing", 5)

	assert.Equal(t, before, c.Version())
	assert.Equal(t, 2, c.ItemCount())
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(candidate("toast", 2, ""))
	c.AddItem(candidate("juice", 1, ""))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.ItemCount())
}

func TestItems_ReturnsCopies(t *testing.T) {
	c := New()
	c.AddItem(Candidate{
		ItemID:            "dosa",
		UnitPrice:         decimal.NewFromInt(80),
		Variations:        []string{"Chutney"},
		GroupedVariations: map[string][]string{"Side": {"Chutney"}},
		Quantity:          1,
	})

	items := c.Items()
	items[0].Quantity = 99
	items[0].Variations[0] = "changed"
	items[0].GroupedVariations["Side"][0] = "changed"

	fresh := c.Items()[0]
	assert.Equal(t, 1, fresh.Quantity)
	assert.Equal(t, "Chutney", fresh.Variations[0])
	assert.Equal(t, "Chutney", fresh.GroupedVariations["Side"][0])
}

func TestIdentityKey_OrderInsensitive(t *testing.T) {
	a := IdentityKey("idli", []string{"Sambar", "Chutney"}, "")
	b := IdentityKey("idli", []string{"Chutney", "Sambar"}, "")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, IdentityKey("idli", []string{"Chutney", "Sambar"}, "extra hot"))
}

func TestLineTotal(t *testing.T) {
	line := LineItem{UnitPrice: decimal.RequireFromString("42.50"), Quantity: 3}
	assert.Equal(t, "127.5", line.LineTotal().String())
}
