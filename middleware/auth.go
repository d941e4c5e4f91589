package middleware

import (
	"errors"
	"strings"
	"time"

	"cravecart-api/models"
	"cravecart-api/pkg/resp"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
	ctxRole   = "role"
)

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 access tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

// Generate creates a signed JWT for a given user
func (t *Tokens) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func (t *Tokens) setClaims(c *gin.Context, claims *Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxRole, string(claims.Role))
}

// AuthRequired validates the bearer JWT and injects claims into context
func (t *Tokens) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearer(c)
		if tokenStr == "" {
			resp.Unauthorized(c, "Not authorized, no token")
			return
		}
		claims, err := t.Parse(tokenStr)
		if err != nil {
			resp.Unauthorized(c, "Not authorized, token failed")
			return
		}
		t.setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth injects claims when a valid bearer token is present and lets
// anonymous requests through
func (t *Tokens) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := bearer(c); tokenStr != "" {
			if claims, err := t.Parse(tokenStr); err == nil {
				t.setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// WSAuth accepts the token from the "token" query parameter, since browsers
// cannot set headers on websocket upgrades, falling back to the header
func (t *Tokens) WSAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			tokenStr = bearer(c)
		}
		if tokenStr == "" {
			resp.Unauthorized(c, "Not authorized, no token")
			return
		}
		claims, err := t.Parse(tokenStr)
		if err != nil {
			resp.Unauthorized(c, "Not authorized, token failed")
			return
		}
		t.setClaims(c, claims)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			resp.Unauthorized(c, "Not authorized, no token")
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		resp.Forbidden(c, "Role: "+string(role)+" is not allowed to access this resource")
	}
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetRole extracts caller role from context
func GetRole(c *gin.Context) (models.UserRole, bool) {
	v, ok := c.Get(ctxRole)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return models.UserRole(s), true
}
