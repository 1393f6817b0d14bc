package routes

import (
	"net/http"

	"github.com/Ankitshrma25/IMS/internal/container"
	"github.com/Ankitshrma25/IMS/internal/items"
	"github.com/Ankitshrma25/IMS/internal/requests"
	"github.com/Ankitshrma25/IMS/internal/stats"
	"github.com/Ankitshrma25/IMS/pkg/security"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes wires the unauthenticated surface: login and the
// health probe.
func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterProtectedRoutes wires everything behind the JWT middleware.
func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protected := router.Group("")
	protected.Use(security.JWTMiddleware())

	items.RegisterRoutes(protected, c.ItemRepository, c.Ledger, c.Repository, c.AuditLog)
	requests.RegisterRoutes(protected, c.RequestService, c.AuditLog)
	stats.RegisterRoutes(protected, c.Repository)
	c.UserHandler.RegisterRoutes(protected)
}
