package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/mesto-api/internal/interface/http"
	"github.com/oksasatya/mesto-api/internal/interface/middleware"
	"github.com/oksasatya/mesto-api/pkg/helpers"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

// UserModule wires the profile routes. All of them require a token.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(
		middleware.Auth(m.JWT),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		users.GET("", m.Handler.List)
		users.GET("/me", m.Handler.Me)
		users.GET("/search", m.Handler.Search)
		users.GET("/:userId", m.Handler.Get)
		users.PATCH("/me", validation.Body[handlers.UpdateProfileRequest](), m.Handler.UpdateProfile)
		users.PATCH("/me/avatar", validation.Body[handlers.UpdateAvatarRequest](), m.Handler.UpdateAvatar)
		users.POST("/me/avatar/upload",
			middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByUserID(), nil),
			m.Handler.UploadAvatar,
		)
		users.DELETE("/me/delete", m.Handler.Delete)
	}
}
