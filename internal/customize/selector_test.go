package customize

import (
	"strings"
	"testing"

	"github.com/chrisdamba/kioskorder/internal/cart"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dosa() *models.MenuItem {
	return &models.MenuItem{
		ID:    "dosa",
		Name:  "Masala Dosa",
		Price: 120,
		VariationGroups: []models.VariationGroup{
			{
				GroupName: "Filling",
				Type:      models.SelectionSingle,
				Required:  true,
				Options: []models.VariationOption{
					{ID: "potato", Name: "Potato", Price: 0},
					{ID: "paneer", Name: "Paneer", Price: 40},
				},
			},
			{
				GroupName: "Sides",
				Type:      models.SelectionMultiple,
				Options: []models.VariationOption{
					{ID: "sambar", Name: "Sambar", Price: 10},
					{ID: "chutney", Name: "Chutney", Price: 5},
					{ID: "podi", Name: "Podi", Price: 15},
				},
			},
			{
				GroupName: "Crispness",
				Type:      models.SelectionSingle,
				Options: []models.VariationOption{
					{ID: "soft", Name: "Soft"},
					{ID: "crisp", Name: "Extra Crisp"},
				},
			},
		},
	}
}

func names(options []models.VariationOption) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Name)
	}
	return out
}

func TestSelect_SingleGroupReplaces(t *testing.T) {
	s := New(dosa(), nil)

	require.NoError(t, s.Select("Filling", "potato"))
	require.NoError(t, s.Select("Filling", "paneer"))

	assert.Equal(t, []string{"Paneer"}, names(s.GroupSelections("Filling")))
	assert.False(t, s.IsSelected("Filling", "potato"))
}

func TestSelect_SingleRequiredRetapKeepsSelection(t *testing.T) {
	s := New(dosa(), nil)

	require.NoError(t, s.Select("Filling", "paneer"))
	require.NoError(t, s.Select("Filling", "paneer"))

	assert.True(t, s.IsSelected("Filling", "paneer"))
}

func TestSelect_SingleOptionalRetapDeselects(t *testing.T) {
	s := New(dosa(), nil)

	require.NoError(t, s.Select("Crispness", "crisp"))
	require.NoError(t, s.Select("Crispness", "crisp"))

	assert.Empty(t, s.GroupSelections("Crispness"))
}

func TestSelect_MultipleGroupToggles(t *testing.T) {
	s := New(dosa(), nil)

	require.NoError(t, s.Select("Sides", "sambar"))
	require.NoError(t, s.Select("Sides", "chutney"))
	assert.Equal(t, []string{"Sambar", "Chutney"}, names(s.GroupSelections("Sides")))

	require.NoError(t, s.Select("Sides", "sambar"))
	assert.Equal(t, []string{"Chutney"}, names(s.GroupSelections("Sides")))
}

func TestSelect_MaxSelect(t *testing.T) {
	item := dosa()
	item.VariationGroups[1].MaxSelect = 2
	s := New(item, nil)

	require.NoError(t, s.Select("Sides", "sambar"))
	require.NoError(t, s.Select("Sides", "chutney"))
	err := s.Select("Sides", "podi")
	assert.ErrorIs(t, err, ErrMaxSelections)
	assert.Len(t, s.GroupSelections("Sides"), 2)

	// Deselecting is always allowed.
	require.NoError(t, s.Select("Sides", "sambar"))
	require.NoError(t, s.Select("Sides", "podi"))
}

func TestSelect_UnknownGroupOrOption(t *testing.T) {
	s := New(dosa(), nil)

	assert.ErrorIs(t, s.Select("Toppings", "x"), ErrUnknownGroup)
	assert.ErrorIs(t, s.Select("Sides", "ketchup"), ErrUnknownOption)
}

func TestRequiredGroupsBlockCommit(t *testing.T) {
	s := New(dosa(), nil)
	c := cart.New()

	assert.False(t, s.HasRequiredSelections())
	assert.Equal(t, []string{"Filling"}, s.MissingRequiredGroups())

	_, err := s.Commit(c)
	var missing *MissingSelectionsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Filling"}, missing.Groups)
	assert.True(t, c.IsEmpty())

	require.NoError(t, s.Select("Filling", "potato"))
	assert.True(t, s.HasRequiredSelections())

	key, err := s.Commit(c)
	require.NoError(t, err)
	assert.NotEmpty(t, key)
	assert.Equal(t, 1, c.ItemCount())
}

func TestCandidate_LocksPriceAndFlattens(t *testing.T) {
	item := dosa()
	s := New(item, nil)
	require.NoError(t, s.Select("Sides", "chutney"))
	require.NoError(t, s.Select("Filling", "paneer"))
	require.NoError(t, s.Select("Sides", "sambar"))
	s.SetQuantity(2)
	s.SetInstructions("less oil")

	cand, err := s.Candidate()
	require.NoError(t, err)

	assert.Equal(t, "dosa", cand.ItemID)
	assert.Equal(t, []string{"Paneer", "Chutney", "Sambar"}, cand.Variations)
	assert.Equal(t, map[string][]string{
		"Filling": {"Paneer"},
		"Sides":   {"Chutney", "Sambar"},
	}, cand.GroupedVariations)
	assert.True(t, cand.UnitPrice.Equal(decimal.NewFromInt(175)), cand.UnitPrice.String())
	assert.Equal(t, 120.0, cand.BasePrice)
	assert.Equal(t, 2, cand.Quantity)
	assert.Equal(t, "less oil", cand.SpecialInstructions)
	assert.True(t, s.Total().Equal(decimal.NewFromInt(350)))

	// Later catalog changes do not affect the locked candidate.
	item.VariationGroups[0].Options[1].Price = 400
	assert.True(t, cand.UnitPrice.Equal(decimal.NewFromInt(175)))
}

func TestLegacyVariationsFallback(t *testing.T) {
	item := &models.MenuItem{
		ID:    "toast",
		Name:  "Toast",
		Price: 60,
		Variations: []models.VariationOption{
			{ID: "butter", Name: "Butter", Price: 10},
			{ID: "jam", Name: "Jam", Price: 15},
		},
	}
	s := New(item, nil)

	groups := s.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, models.LegacyGroupName, groups[0].GroupName)
	assert.Equal(t, models.SelectionMultiple, groups[0].Type)
	assert.False(t, groups[0].Required)
	assert.True(t, s.HasRequiredSelections())

	require.NoError(t, s.Select(models.LegacyGroupName, "butter"))
	require.NoError(t, s.Select(models.LegacyGroupName, "jam"))
	assert.True(t, s.UnitPrice().Equal(decimal.NewFromInt(85)))
}

func TestQuantityClamp(t *testing.T) {
	s := New(dosa(), nil)
	s.Decrement()
	assert.Equal(t, 1, s.Quantity())
	s.Increment()
	s.Increment()
	assert.Equal(t, 3, s.Quantity())
	s.SetQuantity(-2)
	assert.Equal(t, 1, s.Quantity())
}

func TestSetInstructionsTruncates(t *testing.T) {
	s := New(dosa(), nil)
	s.SetInstructions(strings.Repeat("é", MaxInstructionsLength+20))
	assert.Equal(t, MaxInstructionsLength, len([]rune(s.Instructions())))
}

func TestCustomPriceFunc(t *testing.T) {
	item := dosa()
	item.Complimentary = true
	s := New(item, func(*models.MenuItem) decimal.Decimal { return decimal.Zero })
	require.NoError(t, s.Select("Filling", "paneer"))

	assert.True(t, s.UnitPrice().Equal(decimal.NewFromInt(40)))
}
