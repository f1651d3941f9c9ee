package factories

import (
	"testing"

	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuFactory_Deterministic(t *testing.T) {
	a := NewMenuFactory(7)
	b := NewMenuFactory(7)

	itemsA := a.CreateMenuItems(a.CreateCategories(), 3)
	itemsB := b.CreateMenuItems(b.CreateCategories(), 3)

	require.Len(t, itemsA, 15)
	assert.Equal(t, itemsA, itemsB)
}

func TestMenuFactory_Shapes(t *testing.T) {
	mf := NewMenuFactory(1)
	categories := mf.CreateCategories()
	items := mf.CreateMenuItems(categories, 100)

	byCategory := make(map[string]int)
	for _, item := range items {
		byCategory[item.Category]++
		assert.NotEmpty(t, item.ID)
		assert.Positive(t, item.Price)

		for _, group := range item.VariationGroups {
			assert.NotEmpty(t, group.Options)
			if group.Required {
				assert.Zero(t, group.Options[0].Price)
			}
		}
		if item.Category == "bakery" {
			assert.Empty(t, item.VariationGroups)
			assert.NotEmpty(t, item.Variations)
		}
	}
	for _, c := range categories {
		assert.Equal(t, len(breakfastDishes[c.Name]), byCategory[c.ID], c.Name)
	}
}

func TestRestaurantFactory(t *testing.T) {
	rf := &RestaurantFactory{}
	tables := rf.CreateTables(12)

	require.Len(t, tables, 12)
	assert.Equal(t, models.Table{ID: "tbl-01", TableNo: "01", Title: "Table 01"}, tables[0])
	assert.Equal(t, "12", tables[11].TableNo)

	assert.Equal(t, "Hotel Lumiere", rf.CreateBranding().RestaurantName)
	assert.Equal(t, "Grand Hyatt", (&RestaurantFactory{Name: "Grand Hyatt"}).CreateBranding().RestaurantName)
}
