package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.ListOwn)         // List own bookings
		group.GET("/owner", h.ListOwner) // List bookings of own items
		group.GET("/:id", h.Get)         // Get booking details
		group.POST("", h.Create)         // Create booking
		group.PATCH("/:id", h.Approve)   // Approve or reject booking
	}
}
