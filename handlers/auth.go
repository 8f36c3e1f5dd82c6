package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/finmentor/backend/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type authRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (r authRequest) normalized() (string, string) {
	return strings.ToLower(strings.TrimSpace(r.Email)), strings.TrimSpace(r.Name)
}

// Register creates an account; 409 when the email is taken
func (h *APIHandler) Register(c *gin.Context) {
	var req authRequest
	if !bindJSON(c, &req) {
		return
	}
	email, name := req.normalized()
	if email == "" || name == "" {
		badRequest(c, "Email and name are required")
		return
	}
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	user, err := h.store.RegisterUser(c.Request.Context(), email, name)
	if errors.Is(err, services.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}
	if err != nil {
		internalError(c, h.log, err, "Registration failed")
		return
	}

	h.log.WithFields(requestFields(c)).WithFields(logrus.Fields{"email": email}).Info("User registered")
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Login upserts the account and refreshes lastLogin
func (h *APIHandler) Login(c *gin.Context) {
	var req authRequest
	if !bindJSON(c, &req) {
		return
	}
	email, name := req.normalized()
	if email == "" {
		badRequest(c, "Email is required")
		return
	}
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	user, err := h.store.LoginUser(c.Request.Context(), email, name)
	if err != nil {
		internalError(c, h.log, err, "Login failed")
		return
	}

	h.log.WithFields(requestFields(c)).WithFields(logrus.Fields{"email": email}).Info("User logged in")
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// ListUsers returns accounts by most recent login
func (h *APIHandler) ListUsers(c *gin.Context) {
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	users, err := h.store.ListUsers(c.Request.Context(), 0)
	if err != nil {
		internalError(c, h.log, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}
