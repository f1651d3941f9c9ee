package kiosk

import (
	"strings"

	"github.com/chrisdamba/kioskorder/internal/cart"
	"github.com/chrisdamba/kioskorder/internal/customize"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/chrisdamba/kioskorder/internal/pricing"
)

// Customize starts the option flow for a menu item. Prices come from the
// pricing policy so complimentary items start at zero.
func (k *Kiosk) Customize(itemID string) (*customize.Selector, error) {
	item, err := k.item(itemID)
	if err != nil {
		return nil, err
	}
	return customize.New(item, k.policy.BasePrice), nil
}

// AddToCart commits a finished selection.
func (k *Kiosk) AddToCart(sel *customize.Selector) (string, error) {
	if k.placing.Load() {
		return "", ErrSubmissionInFlight
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return sel.Commit(k.cart)
}

// QuickAdd adds one of an item that has nothing to choose.
func (k *Kiosk) QuickAdd(itemID string) (string, error) {
	item, err := k.item(itemID)
	if err != nil {
		return "", err
	}
	if item.HasOptions() {
		return "", ErrNeedsCustomization
	}
	return k.AddToCart(customize.New(item, k.policy.BasePrice))
}

func (k *Kiosk) item(itemID string) (*models.MenuItem, error) {
	snap, err := k.Catalog()
	if err != nil {
		return nil, err
	}
	item, ok := snap.Item(itemID)
	if !ok {
		return nil, ErrUnknownItem
	}
	return item, nil
}

func (k *Kiosk) RemoveItem(key string) error {
	if k.placing.Load() {
		return ErrSubmissionInFlight
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cart.RemoveItem(key)
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (k *Kiosk) UpdateQuantity(key string, quantity int) error {
	if k.placing.Load() {
		return ErrSubmissionInFlight
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cart.UpdateQuantity(key, quantity)
	return nil
}

func (k *Kiosk) CartItems() []cart.LineItem {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cart.Items()
}

func (k *Kiosk) ItemCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cart.ItemCount()
}

// ApplyCoupon applies a typed code. An unknown code returns
// pricing.ErrInvalidCoupon and keeps whatever coupon was applied before.
func (k *Kiosk) ApplyCoupon(code string) (models.Coupon, error) {
	if k.placing.Load() {
		return models.Coupon{}, ErrSubmissionInFlight
	}
	coupon, err := k.policy.LookupCoupon(code)
	if err != nil {
		return models.Coupon{}, err
	}
	k.mu.Lock()
	k.coupon = &coupon
	k.mu.Unlock()
	return coupon, nil
}

func (k *Kiosk) RemoveCoupon() error {
	if k.placing.Load() {
		return ErrSubmissionInFlight
	}
	k.mu.Lock()
	k.coupon = nil
	k.mu.Unlock()
	return nil
}

func (k *Kiosk) AppliedCoupon() *models.Coupon {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.coupon == nil {
		return nil
	}
	coupon := *k.coupon
	return &coupon
}

// SelectTable picks a table by id or number.
func (k *Kiosk) SelectTable(ref string) error {
	if k.placing.Load() {
		return ErrSubmissionInFlight
	}
	snap, err := k.Catalog()
	if err != nil {
		return err
	}
	table, ok := snap.Table(strings.TrimSpace(ref))
	if !ok {
		return ErrUnknownTable
	}
	k.mu.Lock()
	selected := *table
	k.table = &selected
	k.mu.Unlock()
	return nil
}

func (k *Kiosk) Table() *models.Table {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.table == nil {
		return nil
	}
	table := *k.table
	return &table
}

// SetCustomer records optional guest details. The mobile number keeps
// digits only, at most MaxMobileDigits of them.
func (k *Kiosk) SetCustomer(name, mobile string) error {
	if k.placing.Load() {
		return ErrSubmissionInFlight
	}
	k.mu.Lock()
	k.customer = Customer{Name: strings.TrimSpace(name), Mobile: sanitizeMobile(mobile)}
	k.mu.Unlock()
	return nil
}

func (k *Kiosk) Customer() Customer {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.customer
}

func sanitizeMobile(mobile string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, mobile)
	if len(digits) > MaxMobileDigits {
		digits = digits[:MaxMobileDigits]
	}
	return digits
}

// Totals prices the current cart with the applied coupon.
func (k *Kiosk) Totals() pricing.Totals {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.policy.Calculate(k.cart.Items(), k.coupon)
}
