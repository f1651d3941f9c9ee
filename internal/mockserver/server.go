// Package mockserver is an in-memory stand-in for the kiosk ordering backend.
// It serves a generated breakfast catalog and accepts orders, which makes the
// CLI usable without a real POS.
package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chrisdamba/kioskorder/internal/factories"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type Server struct {
	email        string
	passwordHash []byte
	secret       []byte

	categories []models.Category
	items      []models.MenuItem
	tables     []models.Table
	branding   models.Branding

	mu      sync.Mutex
	orders  []models.OrderRequest
	created map[string]models.OrderResponse // by Idempotency-Key
}

// New builds a server whose catalog is generated from cfg.Seed.
func New(cfg models.MockConfig) (*Server, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return nil, errors.New("mock backend needs an email and password")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("mock backend needs a jwt secret")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash mock password: %w", err)
	}

	menu := factories.NewMenuFactory(cfg.Seed)
	categories := menu.CreateCategories()
	restaurant := &factories.RestaurantFactory{}

	return &Server{
		email:        strings.ToLower(cfg.Email),
		passwordHash: hash,
		secret:       []byte(cfg.JWTSecret),
		categories:   categories,
		items:        menu.CreateMenuItems(categories, cfg.ItemsPerCategory),
		tables:       restaurant.CreateTables(cfg.Tables),
		branding:     restaurant.CreateBranding(),
		created:      make(map[string]models.OrderResponse),
	}, nil
}

func (s *Server) Items() []models.MenuItem { return s.items }

func (s *Server) Tables() []models.Table { return s.tables }

// Orders returns every order accepted so far, retries excluded.
func (s *Server) Orders() []models.OrderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.OrderRequest(nil), s.orders...)
}

// Router mounts the backend routes under /api.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Kiosk API Ready"})
	})
	api.POST("/auth/login", s.login)

	authed := api.Group("")
	authed.Use(s.authMiddleware())
	authed.GET("/menu/categories", s.listCategories)
	authed.GET("/menu/items", s.listItems)
	authed.GET("/tables", s.listTables)
	authed.POST("/orders", s.createOrder)
	authed.GET("/config/branding", s.getBranding)

	return r
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("mock backend listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown mock backend: %w", err)
		}
		return nil
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("mock backend request")
	}
}
