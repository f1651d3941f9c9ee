// Package catalog holds the menu snapshot a kiosk sells from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chrisdamba/kioskorder/internal/models"
	"golang.org/x/sync/errgroup"
)

var ErrNotLoaded = errors.New("catalog not loaded")

// Source is where catalog data comes from, normally the backend client.
type Source interface {
	Categories(ctx context.Context) ([]models.Category, error)
	MenuItems(ctx context.Context, category string) ([]models.MenuItem, error)
	Tables(ctx context.Context) ([]models.Table, error)
}

type Snapshot struct {
	Categories []models.Category `json:"categories"`
	Items      []models.MenuItem `json:"items"`
	Tables     []models.Table    `json:"tables"`
	FetchedAt  time.Time         `json:"fetched_at"`
}

// Item looks up a menu item by id.
func (s *Snapshot) Item(id string) (*models.MenuItem, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// ItemsByCategory returns the items of one category in catalog order.
func (s *Snapshot) ItemsByCategory(category string) []models.MenuItem {
	var items []models.MenuItem
	for _, item := range s.Items {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

// Table finds a table by id or by its displayed number.
func (s *Snapshot) Table(ref string) (*models.Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].ID == ref || s.Tables[i].TableNo == ref {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// Fetch loads categories, items and tables concurrently. Either every fetch
// succeeds or an error is returned and no snapshot is produced. progress, if
// set, is called once per completed step and may be called concurrently.
func Fetch(ctx context.Context, src Source, progress func(step string)) (*Snapshot, error) {
	var snap Snapshot
	done := func(step string) {
		if progress != nil {
			progress(step)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories, err := src.Categories(gctx)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		snap.Categories = categories
		done("categories")
		return nil
	})
	g.Go(func() error {
		items, err := src.MenuItems(gctx, "")
		if err != nil {
			return fmt.Errorf("fetch menu items: %w", err)
		}
		snap.Items = items
		done("items")
		return nil
	})
	g.Go(func() error {
		tables, err := src.Tables(gctx)
		if err != nil {
			return fmt.Errorf("fetch tables: %w", err)
		}
		snap.Tables = tables
		done("tables")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.FetchedAt = time.Now().UTC()
	return &snap, nil
}

// Cache keeps the current snapshot for concurrent readers.
type Cache struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Get() (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil, ErrNotLoaded
	}
	return c.snap, nil
}

func (c *Cache) Set(snap *Snapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

func (c *Cache) Reset() {
	c.Set(nil)
}

// Refresh fetches a new snapshot and swaps it in. On failure the previous
// snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context, src Source, progress func(step string)) (*Snapshot, error) {
	snap, err := Fetch(ctx, src, progress)
	if err != nil {
		return nil, err
	}
	c.Set(snap)
	return snap, nil
}
