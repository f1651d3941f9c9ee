// Package kiosk is the session controller behind a self-service ordering
// kiosk. It owns the login state, the cart, the selected table, customer
// details and the applied coupon, and turns them into an order.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chrisdamba/kioskorder/internal/cart"
	"github.com/chrisdamba/kioskorder/internal/catalog"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/chrisdamba/kioskorder/internal/pricing"
	"github.com/chrisdamba/kioskorder/internal/session"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotLoggedIn        = errors.New("kiosk is not logged in")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNoTable            = errors.New("no table selected")
	ErrSubmissionInFlight = errors.New("an order is already being placed")
	ErrUnknownItem        = errors.New("unknown menu item")
	ErrUnknownTable       = errors.New("unknown table")
	ErrNeedsCustomization = errors.New("item has options to choose")
)

// MaxMobileDigits is the length of a local mobile number.
const MaxMobileDigits = 10

// Backend is the remote ordering service.
type Backend interface {
	catalog.Source
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	SetToken(token string)
	Branding(ctx context.Context) (*models.Branding, error)
	CreateOrder(ctx context.Context, order *models.OrderRequest, idempotencyKey string) (*models.OrderResponse, error)
}

type ReceiptPublisher interface {
	Publish(receipt *models.Receipt) error
}

type Customer struct {
	Name   string
	Mobile string
}

type Kiosk struct {
	backend  Backend
	sessions session.Cache
	catalog  *catalog.Cache
	policy   *pricing.Policy
	receipts ReceiptPublisher
	now      func() time.Time

	placing atomic.Bool

	mu       sync.Mutex
	token    string
	branding models.Branding
	cart     *cart.Cart
	table    *models.Table
	customer Customer
	coupon   *models.Coupon
	pending  pendingSubmission
}

type Option func(*Kiosk)

// WithReceipts publishes a receipt for every accepted order.
func WithReceipts(p ReceiptPublisher) Option {
	return func(k *Kiosk) { k.receipts = p }
}

func WithClock(now func() time.Time) Option {
	return func(k *Kiosk) { k.now = now }
}

func New(backend Backend, sessions session.Cache, policy *pricing.Policy, opts ...Option) *Kiosk {
	k := &Kiosk{
		backend:  backend,
		sessions: sessions,
		catalog:  catalog.NewCache(),
		policy:   policy,
		now:      time.Now,
		branding: models.DefaultBranding(),
		cart:     cart.New(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Restore resumes a cached session without touching the network.
func (k *Kiosk) Restore() error {
	state, err := k.sessions.Load()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.token = state.Token
	k.backend.SetToken(state.Token)
	k.catalog.Set(state.Catalog)
	k.branding = models.DefaultBranding()
	if state.Branding != nil {
		k.branding = *state.Branding
	}
	log.WithFields(log.Fields{
		"items":    len(state.Catalog.Items),
		"saved_at": state.SavedAt,
	}).Info("restored cached session")
	return nil
}

// Login authenticates, then loads the catalog and branding. The session is
// only established when the whole catalog loads; a failed login leaves the
// kiosk as it was.
func (k *Kiosk) Login(ctx context.Context, email, password string, progress func(step string)) error {
	if k.placing.Load() {
		return ErrSubmissionInFlight
	}
	resp, err := k.backend.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	k.mu.Lock()
	previous := k.token
	k.mu.Unlock()

	k.backend.SetToken(resp.Token)
	snap, err := catalog.Fetch(ctx, k.backend, progress)
	if err != nil {
		k.backend.SetToken(previous)
		return fmt.Errorf("load catalog: %w", err)
	}

	branding := models.DefaultBranding()
	if fetched, err := k.backend.Branding(ctx); err != nil {
		log.WithError(err).Warn("branding unavailable, using defaults")
	} else {
		branding = *fetched
	}
	if progress != nil {
		progress("branding")
	}

	k.mu.Lock()
	k.token = resp.Token
	k.branding = branding
	k.catalog.Set(snap)
	k.resetOrderLocked()
	k.mu.Unlock()

	k.saveSession(snap)
	log.WithFields(log.Fields{
		"categories": len(snap.Categories),
		"items":      len(snap.Items),
		"tables":     len(snap.Tables),
	}).Info("kiosk logged in")
	return nil
}

// Logout drops the token, the catalog, the cart and every cached key.
func (k *Kiosk) Logout() error {
	if k.placing.Load() {
		return ErrSubmissionInFlight
	}
	k.mu.Lock()
	k.token = ""
	k.branding = models.DefaultBranding()
	k.catalog.Reset()
	k.resetOrderLocked()
	k.mu.Unlock()

	k.backend.SetToken("")
	if err := k.sessions.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (k *Kiosk) LoggedIn() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.token != ""
}

func (k *Kiosk) Branding() models.Branding {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.branding
}

// Catalog returns the current menu snapshot.
func (k *Kiosk) Catalog() (*catalog.Snapshot, error) {
	if !k.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	snap, err := k.catalog.Get()
	if err != nil {
		return nil, ErrNotLoggedIn
	}
	return snap, nil
}

// RefreshCatalog refetches the catalog. The current snapshot survives a
// failed refresh.
func (k *Kiosk) RefreshCatalog(ctx context.Context, progress func(step string)) error {
	if !k.LoggedIn() {
		return ErrNotLoggedIn
	}
	snap, err := k.catalog.Refresh(ctx, k.backend, progress)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	k.saveSession(snap)
	return nil
}

func (k *Kiosk) saveSession(snap *catalog.Snapshot) {
	k.mu.Lock()
	branding := k.branding
	state := &session.State{
		Token:    k.token,
		Catalog:  snap,
		Branding: &branding,
		SavedAt:  k.now().UTC(),
	}
	k.mu.Unlock()

	if err := k.sessions.Save(state); err != nil {
		log.WithError(err).Warn("failed to cache session")
	}
}

// resetOrderLocked clears everything a placed order consumes.
func (k *Kiosk) resetOrderLocked() {
	k.cart.Clear()
	k.table = nil
	k.coupon = nil
	k.customer = Customer{}
	k.pending = pendingSubmission{}
}
