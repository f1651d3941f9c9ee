// Package cart holds the in-memory list of line items for one kiosk session.
//
// A line item is identified by the menu item, the sorted set of selected
// option names and the special-instructions text. Adding a candidate whose
// identity matches an existing line merges quantities; anything else appends
// a new line. A Cart is not safe for concurrent use.
package cart

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const keySeparator = "\x1f"

// Candidate is a fully priced item ready to be committed to the cart.
type Candidate struct {
	ItemID              string
	Name                string
	BasePrice           float64
	UnitPrice           decimal.Decimal // base price plus option deltas, locked at selection time
	Variations          []string
	GroupedVariations   map[string][]string
	SpecialInstructions string
	Quantity            int
}

type LineItem struct {
	Key                 string
	ItemID              string
	Name                string
	BasePrice           float64
	UnitPrice           decimal.Decimal
	Variations          []string
	GroupedVariations   map[string][]string
	SpecialInstructions string
	Quantity            int
}

// LineTotal is the unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	lines   []*LineItem
	version uint64
}

func New() *Cart {
	return &Cart{}
}

// IdentityKey builds the composite key for an item, its selected option names
// (order-insensitive) and the instructions text.
func IdentityKey(itemID string, variations []string, instructions string) string {
	names := append([]string(nil), variations...)
	sort.Strings(names)
	return strings.Join([]string{itemID, strings.Join(names, keySeparator), instructions}, keySeparator+keySeparator)
}

// AddItem merges c into the line with the same identity key or appends a new
// line. A quantity below 1 is clamped to 1. It returns the line's key.
func (c *Cart) AddItem(cand Candidate) string {
	qty := cand.Quantity
	if qty < 1 {
		qty = 1
	}
	key := IdentityKey(cand.ItemID, cand.Variations, cand.SpecialInstructions)
	c.version++

	if line := c.find(key); line != nil {
		line.Quantity += qty
		return key
	}

	c.lines = append(c.lines, &LineItem{
		Key:                 key,
		ItemID:              cand.ItemID,
		Name:                cand.Name,
		BasePrice:           cand.BasePrice,
		UnitPrice:           cand.UnitPrice,
		Variations:          append([]string(nil), cand.Variations...),
		GroupedVariations:   copyGroups(cand.GroupedVariations),
		SpecialInstructions: cand.SpecialInstructions,
		Quantity:            qty,
	})
	return key
}

// RemoveItem deletes the line with key. An unknown key is a no-op.
func (c *Cart) RemoveItem(key string) {
	for i, line := range c.lines {
		if line.Key == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.version++
			return
		}
	}
}

// UpdateQuantity sets the quantity of the line with key. A quantity of zero
// or less removes the line.
func (c *Cart) UpdateQuantity(key string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(key)
		return
	}
	if line := c.find(key); line != nil {
		line.Quantity = quantity
		c.version++
	}
}

func (c *Cart) Clear() {
	if len(c.lines) == 0 {
		return
	}
	c.lines = nil
	c.version++
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, 0, len(c.lines))
	for _, line := range c.lines {
		item := *line
		item.Variations = append([]string(nil), line.Variations...)
		item.GroupedVariations = copyGroups(line.GroupedVariations)
		items = append(items, item)
	}
	return items
}

// Get returns a copy of the line with key.
func (c *Cart) Get(key string) (LineItem, bool) {
	line := c.find(key)
	if line == nil {
		return LineItem{}, false
	}
	return *line, true
}

// Version changes on every mutation.
func (c *Cart) Version() uint64 {
	return c.version
}

func (c *Cart) find(key string) *LineItem {
	for _, line := range c.lines {
		if line.Key == key {
			return line
		}
	}
	return nil
}

func copyGroups(groups map[string][]string) map[string][]string {
	if groups == nil {
		return nil
	}
	out := make(map[string][]string, len(groups))
	for name, options := range groups {
		out[name] = append([]string(nil), options...)
	}
	return out
}
