package kiosk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdamba/kioskorder/internal/api"
	"github.com/chrisdamba/kioskorder/internal/customize"
	"github.com/chrisdamba/kioskorder/internal/pricing"
	"github.com/chrisdamba/kioskorder/internal/session"
)

// Message turns an error from this package, or anything it wraps, into the
// text a guest or operator sees.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var missing *customize.MissingSelectionsError
	var rejected *api.RejectedError

	switch {
	case errors.As(err, &missing):
		return "Please select: " + strings.Join(missing.Groups, ", ")
	case errors.Is(err, customize.ErrMaxSelections):
		return "You have reached the maximum number of choices for this option"
	case errors.Is(err, customize.ErrUnknownGroup), errors.Is(err, customize.ErrUnknownOption):
		return "That choice is not available for this item"
	case errors.Is(err, pricing.ErrInvalidCoupon):
		return "Invalid coupon code"
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty"
	case errors.Is(err, ErrNoTable):
		return "Please select a table"
	case errors.Is(err, ErrSubmissionInFlight):
		return "Your order is being placed, please wait"
	case errors.Is(err, ErrNeedsCustomization):
		return "Please choose the options for this item"
	case errors.Is(err, ErrUnknownItem):
		return "This item is not on the menu"
	case errors.Is(err, ErrUnknownTable):
		return "This table does not exist"
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, session.ErrNoSession):
		return "Please log in to continue"
	case errors.Is(err, session.ErrSessionExpired):
		return "Your session has expired, please log in again"
	case errors.Is(err, api.ErrUnreachable):
		return "Cannot reach the ordering service. Check the network connection and try again"
	case errors.Is(err, context.DeadlineExceeded):
		return "The ordering service took too long to respond. Please try again"
	case errors.As(err, &rejected):
		return rejectedMessage(rejected)
	default:
		return "Something went wrong. Please try again"
	}
}

func rejectedMessage(rejected *api.RejectedError) string {
	if errors.Is(rejected, api.ErrUnauthorized) {
		if rejected.Path == "/auth/login" {
			return "Invalid email or password"
		}
		return "Your session has expired, please log in again"
	}
	if rejected.Detail != "" {
		return fmt.Sprintf("The ordering service rejected the request: %s", rejected.Detail)
	}
	return fmt.Sprintf("The ordering service rejected the request (status %d)", rejected.StatusCode)
}
