package router

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Module registers a feature's routes on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry mounts modules under one API group. Middleware added with Use
// applies to every module and must be added before RegisterAll.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	shared  gin.HandlersChain
	pending []Module
	mounted bool
}

// NewRegistry mounts modules under prefix; an empty prefix mounts them at
// the root.
func NewRegistry(engine *gin.Engine, prefix string) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/" + strings.Trim(prefix, "/"))}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) { r.shared = append(r.shared, mw...) }

func (r *Registry) Add(mods ...Module) { r.pending = append(r.pending, mods...) }

// RegisterAll mounts the pending modules once; later calls are no-ops.
func (r *Registry) RegisterAll() {
	if r.mounted {
		return
	}
	r.mounted = true
	r.API.Use(r.shared...)
	for _, m := range r.pending {
		m.Register(r.API)
	}
	r.pending = nil
}
