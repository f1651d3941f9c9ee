package mockserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != s.email || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	token, err := s.generateToken(email)
	if err != nil {
		log.WithError(err).Error("sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

func (s *Server) generateToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) validateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		if err := s.validateToken(parts[1]); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token: " + err.Error()})
			return
		}
		c.Next()
	}
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.categories)
}

func (s *Server) listItems(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusOK, s.items)
		return
	}
	items := make([]models.MenuItem, 0)
	for _, item := range s.items {
		if item.Category == category {
			items = append(items, item)
		}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) listTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": s.tables})
}

func (s *Server) getBranding(c *gin.Context) {
	c.JSON(http.StatusOK, s.branding)
}

func (s *Server) createOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid order payload"})
		return
	}
	if detail := validateOrder(&req); detail != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
		return
	}

	key := c.GetHeader("Idempotency-Key")

	s.mu.Lock()
	defer s.mu.Unlock()

	if key != "" {
		if existing, ok := s.created[key]; ok {
			c.JSON(http.StatusOK, existing)
			return
		}
	}

	resp := models.OrderResponse{
		ID:        uuid.NewString(),
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.orders = append(s.orders, req)
	if key != "" {
		s.created[key] = resp
	}

	log.WithFields(log.Fields{
		"order_id": resp.ID,
		"table":    req.TableNumber,
		"items":    len(req.Items),
		"total":    req.Total,
	}).Info("mock backend accepted order")

	c.JSON(http.StatusCreated, resp)
}

func validateOrder(req *models.OrderRequest) string {
	if strings.TrimSpace(req.TableNumber) == "" {
		return "table_number is required"
	}
	if len(req.Items) == 0 {
		return "order has no items"
	}
	for _, item := range req.Items {
		if item.ItemID == "" {
			return "item_id is required"
		}
		if item.Quantity < 1 {
			return "quantity must be at least 1"
		}
	}
	if req.Total < 0 {
		return "total must not be negative"
	}
	return ""
}
