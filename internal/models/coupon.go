package models

type Coupon struct {
	Code        string  `json:"code" mapstructure:"-"`
	Discount    float64 `json:"discount" mapstructure:"discount"`
	Type        string  `json:"type" mapstructure:"type"`
	Description string  `json:"description" mapstructure:"description"`
}
