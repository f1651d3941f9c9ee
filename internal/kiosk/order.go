package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/kioskorder/internal/cart"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/chrisdamba/kioskorder/internal/pricing"
	"github.com/lucsky/cuid"
	log "github.com/sirupsen/logrus"
)

// pendingSubmission remembers the idempotency key of a failed submission.
// A retry of the identical payload reuses it; any change gets a fresh key.
type pendingSubmission struct {
	key     string
	payload []byte
}

// PlaceOrder submits the cart for the selected table. On success the cart,
// table, coupon and customer are reset and a receipt is published. On
// failure nothing is reset so the guest can retry.
func (k *Kiosk) PlaceOrder(ctx context.Context) (*models.OrderConfirmation, error) {
	if !k.placing.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer k.placing.Store(false)

	k.mu.Lock()
	if k.token == "" {
		k.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	order, totals, err := k.buildOrderLocked()
	if err != nil {
		k.mu.Unlock()
		return nil, err
	}
	key, err := k.idempotencyKeyLocked(order)
	if err != nil {
		k.mu.Unlock()
		return nil, err
	}
	customerName := k.customer.Name
	customerMobile := k.customer.Mobile
	k.mu.Unlock()

	logger := log.WithFields(log.Fields{
		"table":           order.TableNumber,
		"items":           len(order.Items),
		"total":           pricing.Money(totals.GrandTotal),
		"idempotency_key": key,
	})

	resp, err := k.backend.CreateOrder(ctx, order, key)
	if err != nil {
		logger.WithError(err).Warn("order submission failed")
		return nil, fmt.Errorf("place order: %w", err)
	}
	orderID := resp.OrderID()

	k.mu.Lock()
	k.resetOrderLocked()
	k.mu.Unlock()
	logger.WithField("order_id", orderID).Info("order placed")

	if k.receipts != nil {
		receipt := &models.Receipt{
			OrderID:        orderID,
			TableNumber:    order.TableNumber,
			TableID:        order.TableID,
			CustomerName:   customerName,
			CustomerMobile: customerMobile,
			CouponCode:     totals.CouponCode,
			Items:          order.Items,
			Subtotal:       order.Subtotal,
			Discount:       order.Discount,
			CGST:           order.CGST,
			SGST:           order.SGST,
			Total:          order.Total,
			PlacedAt:       k.now().UTC(),
		}
		if err := k.receipts.Publish(receipt); err != nil {
			logger.WithError(err).Warn("receipt publishing incomplete")
		}
	}

	return &models.OrderConfirmation{
		OrderID:      orderID,
		TableNumber:  order.TableNumber,
		CustomerName: customerName,
		GrandTotal:   pricing.Money(totals.GrandTotal),
	}, nil
}

// BuildOrder returns the request PlaceOrder would send, without sending it.
func (k *Kiosk) BuildOrder() (*models.OrderRequest, pricing.Totals, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.buildOrderLocked()
}

func (k *Kiosk) buildOrderLocked() (*models.OrderRequest, pricing.Totals, error) {
	if k.cart.IsEmpty() {
		return nil, pricing.Totals{}, ErrEmptyCart
	}
	if k.table == nil {
		return nil, pricing.Totals{}, ErrNoTable
	}

	lines := k.cart.Items()
	totals := k.policy.Calculate(lines, k.coupon)

	order := &models.OrderRequest{
		TableNumber:    k.table.TableNo,
		TableID:        k.table.ID,
		CustomerName:   optional(k.customer.Name),
		CustomerMobile: optional(k.customer.Mobile),
		Items:          make([]models.OrderItem, 0, len(lines)),
		Subtotal:       pricing.Float(totals.Subtotal),
		Discount:       pricing.Float(totals.Discount),
		CouponCode:     optional(totals.CouponCode),
		CGST:           pricing.Float(totals.CGST),
		SGST:           pricing.Float(totals.SGST),
		Total:          pricing.Float(totals.GrandTotal),
	}
	for _, line := range lines {
		order.Items = append(order.Items, orderItem(line))
	}
	return order, totals, nil
}

func orderItem(line cart.LineItem) models.OrderItem {
	variations := line.Variations
	if variations == nil {
		variations = []string{}
	}
	grouped := line.GroupedVariations
	if grouped == nil {
		grouped = map[string][]string{}
	}
	return models.OrderItem{
		ItemID:              line.ItemID,
		Name:                line.Name,
		Price:               pricing.Float(line.UnitPrice),
		BasePrice:           line.BasePrice,
		Quantity:            line.Quantity,
		Variations:          variations,
		GroupedVariations:   grouped,
		SpecialInstructions: optional(line.SpecialInstructions),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (k *Kiosk) idempotencyKeyLocked(order *models.OrderRequest) (string, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	if k.pending.key == "" || !bytes.Equal(k.pending.payload, payload) {
		k.pending = pendingSubmission{key: cuid.New(), payload: payload}
	}
	return k.pending.key, nil
}
