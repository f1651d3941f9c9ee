// Package pricing derives order totals from cart lines and an optional coupon.
//
// Amounts accumulate as exact decimals; rounding to two places happens only
// when a value is formatted for display or sent over the wire.
package pricing

import (
	"errors"
	"strings"

	"github.com/chrisdamba/kioskorder/internal/cart"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/shopspring/decimal"
)

var ErrInvalidCoupon = errors.New("invalid coupon code")

var hundred = decimal.NewFromInt(100)

// Policy is the pricing configuration owned by the backend operator: tax
// rates, the coupon book and the complimentary-price convention.
type Policy struct {
	CGSTPercent              decimal.Decimal
	SGSTPercent              decimal.Decimal
	ComplimentaryPriceMarker decimal.Decimal
	coupons                  map[string]models.Coupon
}

func NewPolicy(cfg models.PricingConfig) *Policy {
	coupons := make(map[string]models.Coupon, len(cfg.Coupons))
	for code, coupon := range cfg.Coupons {
		code = NormalizeCode(code)
		coupon.Code = code
		coupons[code] = coupon
	}
	return &Policy{
		CGSTPercent:              decimal.NewFromFloat(cfg.CGSTPercent),
		SGSTPercent:              decimal.NewFromFloat(cfg.SGSTPercent),
		ComplimentaryPriceMarker: decimal.NewFromFloat(cfg.ComplimentaryPriceMarker),
		coupons:                  coupons,
	}
}

// NormalizeCode upper-cases and trims a typed coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupCoupon resolves a typed code against the coupon book.
func (p *Policy) LookupCoupon(code string) (models.Coupon, error) {
	coupon, ok := p.coupons[NormalizeCode(code)]
	if !ok || coupon.Code == "" {
		return models.Coupon{}, ErrInvalidCoupon
	}
	return coupon, nil
}

// BasePrice returns the price an item contributes before options, applying
// the complimentary flag and, when enabled, the price marker convention.
func (p *Policy) BasePrice(item *models.MenuItem) decimal.Decimal {
	if item.Complimentary {
		return decimal.Zero
	}
	price := decimal.NewFromFloat(item.Price)
	if p.ComplimentaryPriceMarker.IsPositive() && price.Equal(p.ComplimentaryPriceMarker) {
		return decimal.Zero
	}
	return price
}

type Totals struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	AfterDiscount decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	GrandTotal    decimal.Decimal
	CouponCode    string
}

// Calculate prices lines with an optional coupon.
func (p *Policy) Calculate(lines []cart.LineItem, coupon *models.Coupon) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	totals := Totals{Subtotal: subtotal, Discount: Discount(subtotal, coupon)}
	if coupon != nil {
		totals.CouponCode = coupon.Code
	}
	totals.AfterDiscount = subtotal.Sub(totals.Discount)
	totals.CGST = totals.AfterDiscount.Mul(p.CGSTPercent).Div(hundred)
	totals.SGST = totals.AfterDiscount.Mul(p.SGSTPercent).Div(hundred)
	totals.GrandTotal = totals.AfterDiscount.Add(totals.CGST).Add(totals.SGST)
	return totals
}

// Discount is the reduction coupon grants on subtotal. It is never negative
// and never exceeds subtotal.
func Discount(subtotal decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}
	value := decimal.NewFromFloat(coupon.Discount)
	if value.IsNegative() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.Type {
	case models.CouponPercent:
		discount = subtotal.Mul(value).Div(hundred)
	case models.CouponFlat:
		discount = value
	default:
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}

// Money formats an amount with two decimals for display.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Float converts an amount for the JSON wire format. It does not round.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
