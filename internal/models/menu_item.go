package models

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// VariationOption is one selectable customization. Price is added to the
// item's base price when the option is chosen.
type VariationOption struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type VariationGroup struct {
	GroupName string            `json:"group_name"`
	Type      string            `json:"type"` // SelectionSingle or SelectionMultiple
	Required  bool              `json:"required"`
	MinSelect int               `json:"min_select,omitempty"`
	MaxSelect int               `json:"max_select,omitempty"` // 0 means unlimited
	Options   []VariationOption `json:"options"`
}

type MenuItem struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Price           float64           `json:"price"`
	Image           string            `json:"image,omitempty"`
	Category        string            `json:"category"`
	Available       bool              `json:"available"`
	VariationGroups []VariationGroup  `json:"variation_groups,omitempty"`
	Variations      []VariationOption `json:"variations,omitempty"` // legacy flat list
	Calories        int               `json:"calories,omitempty"`
	PortionSize     string            `json:"portion_size,omitempty"`
	Allergens       []string          `json:"allergens,omitempty"`
	Complimentary   bool              `json:"is_complementary,omitempty"`
}

// HasOptions reports whether the item needs the customization flow before it
// can be added to a cart.
func (m *MenuItem) HasOptions() bool {
	return len(m.VariationGroups) > 0 || len(m.Variations) > 0
}

type Table struct {
	ID      string `json:"id"`
	TableNo string `json:"table_no"`
	Title   string `json:"title,omitempty"`
}
