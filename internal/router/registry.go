package router

import "github.com/gin-gonic/gin"

// Registry mounts feature modules under a shared /api group. Middlewares
// passed to NewRegistry run before every module route.
type Registry struct {
	engine  *gin.Engine
	api     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine, mw ...gin.HandlerFunc) *Registry {
	api := engine.Group("/api")
	if len(mw) > 0 {
		api.Use(mw...)
	}
	return &Registry{engine: engine, api: api}
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// Mount registers every added module on the API group.
func (r *Registry) Mount() {
	for _, m := range r.modules {
		m.Register(r.api)
	}
}
