package app

import "github.com/gin-gonic/gin"

// Module is one admin section (zones, streets, spaces, and so on).
// api is the /api/v1 group; pages is the CSRF-protected htmx page group.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}
