package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "CraveCart API"
	ServiceVersion = "1.0.0"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": ServiceVersion,
	})
}

func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the " + serviceName,
		"docs":    "/api/orders/state-machine",
		"health":  "/health",
		"metrics": "/metrics",
		"roles":   []string{"customer", "owner", "admin"},
	})
}
