package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cravecart-api/middleware"
	"cravecart-api/pkg/resp"
	"cravecart-api/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		resp.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds the body and answers 400 with a readable message on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		resp.BadRequest(c, bindMessage(err))
		return false
	}
	return true
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "quantity" {
			return "Quantity must be a positive integer"
		}
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	return "Invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "orderstatus":
		return "Invalid status"
	case "paymentmethod":
		return "Invalid payment method"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func caller(c *gin.Context) services.Caller {
	role, _ := middleware.GetRole(c)
	return services.Caller{ID: middleware.GetUserID(c), Role: role}
}

// optionalCaller is nil for anonymous requests
func optionalCaller(c *gin.Context) *services.Caller {
	role, ok := middleware.GetRole(c)
	if !ok {
		return nil
	}
	return &services.Caller{ID: middleware.GetUserID(c), Role: role}
}

func isStaff(c *gin.Context) bool {
	role, _ := middleware.GetRole(c)
	return role.IsStaff()
}
