package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/shared/server/middleware"
	"resume-parser/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"userId":  userID,
		"isGuest": middleware.IsGuestFromContext(c),
	})
}
