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

type CardModule struct {
	Handler *handlers.CardHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewCardModule(h *handlers.CardHandler, jwt *helpers.JWTManager, rdb *redis.Client) *CardModule {
	return &CardModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *CardModule) Register(rg *gin.RouterGroup) {
	cards := rg.Group("/cards")
	cards.Use(
		middleware.Auth(m.JWT),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		cards.GET("", m.Handler.List)
		cards.POST("", validation.Body[handlers.CreateCardRequest](), m.Handler.Create)
		cards.DELETE("/:cardId", m.Handler.Delete)
		cards.PUT("/:cardId/likes", m.Handler.Like)
		cards.DELETE("/:cardId/likes", m.Handler.Unlike)
	}
}
