package handlers

import (
	"log"
	"net/http"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/security"
	"bluemark.com/bluemark/web/common"
	"bluemark.com/bluemark/web/middlewares"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User  attendance.User `json:"user"`
	Token string          `json:"token"`
}

// LoginHandler resolves credentials against the identity webhook and mints a
// session token. Authentication failure is the only identity error surfaced.
func (h *Handler) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		user, err := h.Identity.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			log.Printf("auth: login failed for %s: %v", req.Email, err)
			c.JSON(http.StatusUnauthorized, common.NewErrorResponse("invalid credentials or server error"))
			return
		}

		token, err := security.CreateSessionToken(user, h.JWTSecret, h.TokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse("failed to create session token"))
			return
		}

		c.SetCookie(middlewares.SessionCookie, token, int(h.TokenTTL), "/", "", false, true)
		c.JSON(http.StatusOK, common.NewSuccessResponse(LoginResponse{User: user, Token: token}))
	}
}
