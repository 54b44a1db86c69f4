package handler

import (
	"errors"
	"net/http"

	"gamevault/internal/auth"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.credentials.Authenticate(
		c.Request.Context(),
		req.Username,
		req.Password,
	)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// One response for unknown user and wrong password.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(failStatus(err), gin.H{"error": "login failed"})
		return
	}

	if !h.startSession(c, p) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}
