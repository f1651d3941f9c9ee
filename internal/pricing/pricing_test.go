package pricing

import (
	"testing"

	"github.com/chrisdamba/kioskorder/internal/cart"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(unit string, qty int) cart.LineItem {
	return cart.LineItem{UnitPrice: dec(unit), Quantity: qty}
}

func defaultPolicy() *Policy {
	return NewPolicy(models.PricingConfig{
		CGSTPercent: 2.5,
		SGSTPercent: 2.5,
		Coupons:     models.DefaultCoupons(),
	})
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

func TestCalculate_PercentCoupon(t *testing.T) {
	p := defaultPolicy()
	coupon := &models.Coupon{Code: "TEN", Type: models.CouponPercent, Discount: 10}

	totals := p.Calculate([]cart.LineItem{line("100", 2), line("50", 1)}, coupon)

	assertDecimal(t, "250", totals.Subtotal)
	assertDecimal(t, "25", totals.Discount)
	assertDecimal(t, "225", totals.AfterDiscount)
	assertDecimal(t, "5.625", totals.CGST)
	assertDecimal(t, "5.625", totals.SGST)
	assertDecimal(t, "236.25", totals.GrandTotal)
	assert.Equal(t, "TEN", totals.CouponCode)
}

func TestCalculate_FlatCouponCappedAtSubtotal(t *testing.T) {
	p := defaultPolicy()
	coupon := &models.Coupon{Code: "FLAT50", Type: models.CouponFlat, Discount: 50}

	totals := p.Calculate([]cart.LineItem{line("30", 1)}, coupon)

	assertDecimal(t, "30", totals.Discount)
	assertDecimal(t, "0", totals.AfterDiscount)
	assertDecimal(t, "0", totals.CGST)
	assertDecimal(t, "0", totals.GrandTotal)
}

func TestCalculate_NoCoupon(t *testing.T) {
	totals := defaultPolicy().Calculate([]cart.LineItem{line("120", 1)}, nil)

	assertDecimal(t, "0", totals.Discount)
	assertDecimal(t, "3", totals.CGST)
	assertDecimal(t, "126", totals.GrandTotal)
	assert.Empty(t, totals.CouponCode)
}

func TestCalculate_EmptyCart(t *testing.T) {
	coupon := &models.Coupon{Code: "FLAT50", Type: models.CouponFlat, Discount: 50}
	totals := defaultPolicy().Calculate(nil, coupon)

	assertDecimal(t, "0", totals.Subtotal)
	assertDecimal(t, "0", totals.Discount)
	assertDecimal(t, "0", totals.GrandTotal)
}

func TestCalculate_NoRoundingBeforeDisplay(t *testing.T) {
	// 3 x 33.33 = 99.99; 5% combined tax = 4.9995
	totals := defaultPolicy().Calculate([]cart.LineItem{line("33.33", 3)}, nil)

	assertDecimal(t, "2.49975", totals.CGST)
	assertDecimal(t, "104.9895", totals.GrandTotal)
	assert.Equal(t, "104.99", Money(totals.GrandTotal))
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name   string
		sub    string
		coupon *models.Coupon
		want   string
	}{
		{"nil coupon", "100", nil, "0"},
		{"percent", "80", &models.Coupon{Type: models.CouponPercent, Discount: 20}, "16"},
		{"percent full", "80", &models.Coupon{Type: models.CouponPercent, Discount: 100}, "80"},
		{"flat under subtotal", "80", &models.Coupon{Type: models.CouponFlat, Discount: 50}, "50"},
		{"flat over subtotal", "20", &models.Coupon{Type: models.CouponFlat, Discount: 50}, "20"},
		{"negative value", "80", &models.Coupon{Type: models.CouponFlat, Discount: -5}, "0"},
		{"unknown type", "80", &models.Coupon{Type: "bogo", Discount: 5}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, Discount(dec(tt.sub), tt.coupon))
		})
	}
}

func TestLookupCoupon(t *testing.T) {
	p := defaultPolicy()

	coupon, err := p.LookupCoupon("  welcome10 ")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", coupon.Code)
	assert.Equal(t, models.CouponPercent, coupon.Type)

	_, err = p.LookupCoupon("NOPE")
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	_, err = p.LookupCoupon("")
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestBasePrice(t *testing.T) {
	p := defaultPolicy()

	assertDecimal(t, "1", p.BasePrice(&models.MenuItem{Price: 1}))
	assertDecimal(t, "0", p.BasePrice(&models.MenuItem{Price: 180, Complimentary: true}))

	marker := NewPolicy(models.PricingConfig{ComplimentaryPriceMarker: 1})
	assertDecimal(t, "0", marker.BasePrice(&models.MenuItem{Price: 1}))
	assertDecimal(t, "2", marker.BasePrice(&models.MenuItem{Price: 2}))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "5.63", Money(dec("5.625")))
	assert.Equal(t, "236.25", Money(dec("236.25")))
	assert.Equal(t, "0.00", Money(decimal.Zero))
}
