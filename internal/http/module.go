package http

import (
	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared route groups for module registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the /api/v1 route group.
	V1 *gin.RouterGroup
	// Public is the per-IP rate limited group under /api/v1 used by the
	// marketing site.
	Public *gin.RouterGroup
}
