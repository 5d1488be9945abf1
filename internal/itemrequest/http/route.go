package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item request routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/requests")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.ListOwn)        // List own requests
		group.GET("/all", h.ListOthers) // List other users' requests
		group.GET("/:id", h.Get)        // Get request with answering items
		group.POST("", h.Create)        // Create request
	}
}
