// Package customize builds a cart candidate from a menu item and the options
// a guest picks for it.
package customize

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chrisdamba/kioskorder/internal/cart"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/shopspring/decimal"
)

// MaxInstructionsLength caps the special-instructions text, in characters.
const MaxInstructionsLength = 200

var (
	ErrUnknownGroup  = errors.New("unknown variation group")
	ErrUnknownOption = errors.New("unknown variation option")
	ErrMaxSelections = errors.New("maximum selections reached for group")
)

// MissingSelectionsError blocks a commit while required groups are empty.
type MissingSelectionsError struct {
	Groups []string
}

func (e *MissingSelectionsError) Error() string {
	return "please select: " + strings.Join(e.Groups, ", ")
}

// PriceFunc returns the base price an item contributes before options.
type PriceFunc func(item *models.MenuItem) decimal.Decimal

// CatalogPrice uses the catalog price as is.
func CatalogPrice(item *models.MenuItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Price)
}

type Selector struct {
	item         *models.MenuItem
	groups       []models.VariationGroup
	selections   map[string][]models.VariationOption
	basePrice    decimal.Decimal
	quantity     int
	instructions string
}

// New starts a selection for item. A nil price func means CatalogPrice.
func New(item *models.MenuItem, price PriceFunc) *Selector {
	if price == nil {
		price = CatalogPrice
	}
	return &Selector{
		item:       item,
		groups:     effectiveGroups(item),
		selections: make(map[string][]models.VariationOption),
		basePrice:  price(item),
		quantity:   1,
	}
}

// effectiveGroups treats a legacy flat variations list as one optional
// multiple-select group.
func effectiveGroups(item *models.MenuItem) []models.VariationGroup {
	if len(item.VariationGroups) > 0 {
		return item.VariationGroups
	}
	if len(item.Variations) > 0 {
		return []models.VariationGroup{{
			GroupName: models.LegacyGroupName,
			Type:      models.SelectionMultiple,
			Required:  false,
			Options:   item.Variations,
		}}
	}
	return nil
}

func (s *Selector) Item() *models.MenuItem {
	return s.item
}

func (s *Selector) Groups() []models.VariationGroup {
	return s.groups
}

// Select applies a tap on optionID in groupName. Single groups replace the
// current choice, and re-tapping it clears the group unless it is required.
// Multiple groups toggle the option.
func (s *Selector) Select(groupName, optionID string) error {
	group, ok := s.group(groupName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, groupName)
	}
	option, ok := findOption(group.Options, optionID)
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrUnknownOption, optionID, groupName)
	}

	current := s.selections[groupName]
	selected := indexOf(current, optionID) >= 0

	if group.Type == models.SelectionSingle {
		if selected {
			if !group.Required {
				delete(s.selections, groupName)
			}
			return nil
		}
		s.selections[groupName] = []models.VariationOption{option}
		return nil
	}

	if selected {
		i := indexOf(current, optionID)
		next := append(append([]models.VariationOption(nil), current[:i]...), current[i+1:]...)
		if len(next) == 0 {
			delete(s.selections, groupName)
		} else {
			s.selections[groupName] = next
		}
		return nil
	}
	if group.MaxSelect > 0 && len(current) >= group.MaxSelect {
		return fmt.Errorf("%w: %s allows %d", ErrMaxSelections, groupName, group.MaxSelect)
	}
	s.selections[groupName] = append(append([]models.VariationOption(nil), current...), option)
	return nil
}

func (s *Selector) IsSelected(groupName, optionID string) bool {
	return indexOf(s.selections[groupName], optionID) >= 0
}

// GroupSelections returns the options selected in one group.
func (s *Selector) GroupSelections(groupName string) []models.VariationOption {
	return append([]models.VariationOption(nil), s.selections[groupName]...)
}

// Selected flattens all selections in group order, then tap order.
func (s *Selector) Selected() []models.VariationOption {
	var all []models.VariationOption
	for _, group := range s.groups {
		all = append(all, s.selections[group.GroupName]...)
	}
	return all
}

func (s *Selector) HasRequiredSelections() bool {
	return len(s.MissingRequiredGroups()) == 0
}

// MissingRequiredGroups names the required groups with no selection.
func (s *Selector) MissingRequiredGroups() []string {
	var missing []string
	for _, group := range s.groups {
		if group.Required && len(s.selections[group.GroupName]) == 0 {
			missing = append(missing, group.GroupName)
		}
	}
	return missing
}

func (s *Selector) SetQuantity(quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.quantity = quantity
}

func (s *Selector) Increment() { s.quantity++ }

func (s *Selector) Decrement() { s.SetQuantity(s.quantity - 1) }

func (s *Selector) Quantity() int {
	return s.quantity
}

// SetInstructions stores the special-instructions text, truncated to
// MaxInstructionsLength characters.
func (s *Selector) SetInstructions(text string) {
	if utf8.RuneCountInString(text) > MaxInstructionsLength {
		text = string([]rune(text)[:MaxInstructionsLength])
	}
	s.instructions = text
}

func (s *Selector) Instructions() string {
	return s.instructions
}

// UnitPrice is the base price plus the deltas of every selected option.
func (s *Selector) UnitPrice() decimal.Decimal {
	price := s.basePrice
	for _, option := range s.Selected() {
		price = price.Add(decimal.NewFromFloat(option.Price))
	}
	return price
}

// Total is the unit price times the chosen quantity.
func (s *Selector) Total() decimal.Decimal {
	return s.UnitPrice().Mul(decimal.NewFromInt(int64(s.quantity)))
}

// Candidate validates required groups and returns the cart candidate with
// its unit price locked in.
func (s *Selector) Candidate() (cart.Candidate, error) {
	if missing := s.MissingRequiredGroups(); len(missing) > 0 {
		return cart.Candidate{}, &MissingSelectionsError{Groups: missing}
	}

	selected := s.Selected()
	names := make([]string, 0, len(selected))
	for _, option := range selected {
		names = append(names, option.Name)
	}

	grouped := make(map[string][]string)
	for _, group := range s.groups {
		for _, option := range s.selections[group.GroupName] {
			grouped[group.GroupName] = append(grouped[group.GroupName], option.Name)
		}
	}

	return cart.Candidate{
		ItemID:              s.item.ID,
		Name:                s.item.Name,
		BasePrice:           s.item.Price,
		UnitPrice:           s.UnitPrice(),
		Variations:          names,
		GroupedVariations:   grouped,
		SpecialInstructions: s.instructions,
		Quantity:            s.quantity,
	}, nil
}

// Commit adds the candidate to c. Nothing is added when a required group is
// unsatisfied.
func (s *Selector) Commit(c *cart.Cart) (string, error) {
	cand, err := s.Candidate()
	if err != nil {
		return "", err
	}
	return c.AddItem(cand), nil
}

func (s *Selector) group(name string) (models.VariationGroup, bool) {
	for _, group := range s.groups {
		if group.GroupName == name {
			return group, true
		}
	}
	return models.VariationGroup{}, false
}

func findOption(options []models.VariationOption, id string) (models.VariationOption, bool) {
	for _, option := range options {
		if option.ID == id {
			return option, true
		}
	}
	return models.VariationOption{}, false
}

func indexOf(options []models.VariationOption, id string) int {
	for i, option := range options {
		if option.ID == id {
			return i
		}
	}
	return -1
}
