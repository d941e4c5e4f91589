package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cravecart-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens([]byte("s3cret"), time.Hour)
	user := &models.User{ID: 7, Email: "owner@test.io", Role: models.RoleOwner}

	tok, err := tokens.Generate(user)
	require.NoError(t, err)

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleOwner, claims.Role)

	_, err = NewTokens([]byte("other"), time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens([]byte("s3cret"), -time.Minute)
	tok, err := tokens.Generate(&models.User{ID: 1, Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = tokens.Parse(tok)
	assert.Error(t, err)
}

func TestAuthMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := NewTokens([]byte("s3cret"), time.Hour)
	customerTok, err := tokens.Generate(&models.User{ID: 3, Role: models.RoleCustomer})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/staff", tokens.AuthRequired(), RoleRequired(models.RoleAdmin, models.RoleOwner), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/optional", tokens.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c)})
	})
	r.GET("/ws", tokens.WSAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c)})
	})

	tests := map[string]struct {
		path   string
		header string
		status int
		body   string
	}{
		"staff without token":      {"/staff", "", http.StatusUnauthorized, `{"message":"Not authorized, no token"}`},
		"staff as customer":        {"/staff", "Bearer " + customerTok, http.StatusForbidden, `{"message":"Role: customer is not allowed to access this resource"}`},
		"optional anonymous":       {"/optional", "", http.StatusOK, `{"userId":0}`},
		"optional with bad token":  {"/optional", "Bearer nope", http.StatusOK, `{"userId":0}`},
		"optional with good token": {"/optional", "Bearer " + customerTok, http.StatusOK, `{"userId":3}`},
		"ws token from query":      {"/ws?token=" + customerTok, "", http.StatusOK, `{"userId":3}`},
		"ws without token":         {"/ws", "", http.StatusUnauthorized, `{"message":"Not authorized, no token"}`},
		"ws with bad query token":  {"/ws?token=nope", "", http.StatusUnauthorized, `{"message":"Not authorized, token failed"}`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.JSONEq(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(HeaderRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}
