package factories

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/jaswdr/faker"
)

// MenuFactory generates a breakfast catalog. The same seed yields the same
// catalog, identifiers included.
type MenuFactory struct {
	fake      faker.Faker
	rng       *rand.Rand
	optionSeq int
}

func NewMenuFactory(seed int64) *MenuFactory {
	return &MenuFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

var breakfastDishes = map[string][]string{
	"South Indian": {"Masala Dosa", "Idli Sambar", "Medu Vada", "Upma", "Pongal", "Uttapam", "Rava Dosa", "Appam"},
	"Eggs":         {"Masala Omelette", "Eggs Benedict", "Scrambled Eggs", "Egg Bhurji", "Fried Eggs", "Shakshuka"},
	"Bakery":       {"Butter Croissant", "Pain au Chocolat", "Blueberry Muffin", "Sourdough Toast", "Banana Bread", "Bagel"},
	"Beverages":    {"Filter Coffee", "Masala Chai", "Fresh Orange Juice", "Cold Coffee", "Green Tea", "Lassi"},
	"Healthy":      {"Fruit Bowl", "Granola Parfait", "Overnight Oats", "Avocado Toast", "Smoothie Bowl", "Poha"},
}

var categoryOrder = []string{"South Indian", "Eggs", "Bakery", "Beverages", "Healthy"}

// CreateCategories returns the fixed breakfast categories.
func (mf *MenuFactory) CreateCategories() []models.Category {
	categories := make([]models.Category, 0, len(categoryOrder))
	for _, name := range categoryOrder {
		categories = append(categories, models.Category{
			ID:    slug(name),
			Name:  name,
			Image: fmt.Sprintf("https://images.kiosk.test/categories/%s.jpg", slug(name)),
		})
	}
	return categories
}

// CreateMenuItems generates up to perCategory items for every category.
func (mf *MenuFactory) CreateMenuItems(categories []models.Category, perCategory int) []models.MenuItem {
	var items []models.MenuItem
	for _, category := range categories {
		dishes := breakfastDishes[category.Name]
		n := perCategory
		if n > len(dishes) {
			n = len(dishes)
		}
		for i := 0; i < n; i++ {
			items = append(items, mf.CreateMenuItem(category, dishes[i]))
		}
	}
	return items
}

func (mf *MenuFactory) CreateMenuItem(category models.Category, name string) models.MenuItem {
	item := models.MenuItem{
		ID:          category.ID + "-" + slug(name),
		Name:        name,
		Description: mf.fake.Lorem().Sentence(10),
		Price:       float64(mf.fake.IntBetween(6, 40) * 10),
		Image:       fmt.Sprintf("https://images.kiosk.test/items/%s.jpg", slug(name)),
		Category:    category.ID,
		Available:   true,
		Calories:    mf.fake.IntBetween(80, 650),
		PortionSize: mf.fake.RandomStringElement([]string{"1 plate", "2 pcs", "250 ml", "1 bowl", "3 pcs"}),
		Allergens:   generateRandomAllergens(mf.rng),
	}

	switch category.Name {
	case "South Indian":
		item.VariationGroups = []models.VariationGroup{
			mf.singleGroup("Filling", true, []string{"Plain", "Potato", "Paneer", "Cheese"}),
			mf.multipleGroup("Sides", 3, []string{"Sambar", "Coconut Chutney", "Tomato Chutney", "Podi"}),
		}
	case "Eggs":
		item.VariationGroups = []models.VariationGroup{
			mf.singleGroup("Egg Style", true, []string{"Whole Egg", "Egg White"}),
			mf.multipleGroup("Add-ons", 0, []string{"Cheese", "Onion", "Mushroom", "Chilli", "Spinach"}),
		}
	case "Beverages":
		item.VariationGroups = []models.VariationGroup{
			mf.singleGroup("Size", true, []string{"Regular", "Large"}),
			mf.singleGroup("Sugar", false, []string{"No Sugar", "Less Sugar", "Extra Sugar"}),
		}
	case "Bakery":
		// Bakery items use the older flat variations list.
		item.Variations = mf.options([]string{"Butter", "Jam", "Honey"})
	default:
		if mf.rng.Intn(3) == 0 {
			item.Complimentary = true
		}
	}
	return item
}

func (mf *MenuFactory) singleGroup(name string, required bool, options []string) models.VariationGroup {
	group := models.VariationGroup{
		GroupName: name,
		Type:      models.SelectionSingle,
		Required:  required,
		MaxSelect: 1,
		Options:   mf.options(options),
	}
	if required {
		group.MinSelect = 1
		// The default choice of a required group carries no surcharge.
		group.Options[0].Price = 0
	}
	return group
}

func (mf *MenuFactory) multipleGroup(name string, maxSelect int, options []string) models.VariationGroup {
	return models.VariationGroup{
		GroupName: name,
		Type:      models.SelectionMultiple,
		MaxSelect: maxSelect,
		Options:   mf.options(options),
	}
}

func (mf *MenuFactory) options(names []string) []models.VariationOption {
	options := make([]models.VariationOption, 0, len(names))
	for _, name := range names {
		mf.optionSeq++
		options = append(options, models.VariationOption{
			ID:    fmt.Sprintf("opt-%04d", mf.optionSeq),
			Name:  name,
			Price: float64(mf.fake.IntBetween(0, 6) * 5),
		})
	}
	return options
}

func generateRandomAllergens(rng *rand.Rand) []string {
	allAllergens := []string{"Gluten", "Dairy", "Egg", "Nuts", "Soy", "Sesame"}
	count := rng.Intn(3) // 0 to 2 allergens
	allergens := make([]string, 0, count)
	seen := make(map[string]bool)
	for len(allergens) < count {
		a := allAllergens[rng.Intn(len(allAllergens))]
		if !seen[a] {
			seen[a] = true
			allergens = append(allergens, a)
		}
	}
	return allergens
}

func slug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)
}
