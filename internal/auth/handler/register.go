package handler

import (
	"errors"
	"net/http"

	"gamevault/internal/auth/credentials"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.credentials.Register(
		c.Request.Context(),
		req.Username,
		req.Email,
		req.Password,
	)

	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		case errors.Is(err, credentials.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
		case errors.Is(err, credentials.ErrSignupContended):
			c.JSON(http.StatusConflict, gin.H{"error": "signup already in progress"})
		default:
			c.JSON(failStatus(err), gin.H{"error": "signup failed"})
		}
		return
	}

	if !h.startSession(c, p) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}
