package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/internal/interface/middleware"
)

// fail hands err to the error stage and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// principal returns the caller attached by middleware.Auth. Services reject
// the zero value.
func principal(c *gin.Context) entity.Principal {
	p, _ := middleware.PrincipalFrom(c.Request.Context())
	return p
}
