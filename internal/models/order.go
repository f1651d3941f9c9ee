package models

import "time"

type OrderItem struct {
	ItemID              string              `json:"item_id"`
	Name                string              `json:"name"`
	Price               float64             `json:"price"`      // locked unit price incl. options
	BasePrice           float64             `json:"base_price"` // catalog price
	Quantity            int                 `json:"quantity"`
	Variations          []string            `json:"variations"`
	GroupedVariations   map[string][]string `json:"grouped_variations"`
	SpecialInstructions *string             `json:"special_instructions"`
}

// OrderRequest is the body of POST /orders.
type OrderRequest struct {
	TableNumber    string      `json:"table_number"`
	TableID        string      `json:"table_id,omitempty"`
	CustomerName   *string     `json:"customer_name"`
	CustomerMobile *string     `json:"customer_mobile"`
	Items          []OrderItem `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	Discount       float64     `json:"discount"`
	CouponCode     *string     `json:"coupon_code"`
	CGST           float64     `json:"cgst"`
	SGST           float64     `json:"sgst"`
	Total          float64     `json:"total"`
}

type OrderResponse struct {
	ID         string    `json:"id,omitempty"`
	POSOrderID string    `json:"pos_order_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// OrderID returns the server-assigned identifier, preferring id over the
// POS identifier.
func (r *OrderResponse) OrderID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.POSOrderID
}

// OrderConfirmation is what the kiosk shows after a successful submission.
type OrderConfirmation struct {
	OrderID      string
	TableNumber  string
	CustomerName string
	GrandTotal   string
}

// Receipt is the record published after an order is accepted.
type Receipt struct {
	OrderID        string      `json:"order_id"`
	TableNumber    string      `json:"table_number"`
	TableID        string      `json:"table_id,omitempty"`
	CustomerName   string      `json:"customer_name,omitempty"`
	CustomerMobile string      `json:"customer_mobile,omitempty"`
	CouponCode     string      `json:"coupon_code,omitempty"`
	Items          []OrderItem `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	Discount       float64     `json:"discount"`
	CGST           float64     `json:"cgst"`
	SGST           float64     `json:"sgst"`
	Total          float64     `json:"total"`
	PlacedAt       time.Time   `json:"placed_at"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
