package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/mesto-api/internal/interface/http"
	"github.com/oksasatya/mesto-api/internal/interface/middleware"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

// AuthModule serves the public credential routes.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signinLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	signupLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/signup", signupLimiter, validation.Body[handlers.SignUpRequest](), m.Handler.SignUp)
	rg.POST("/signin", signinLimiter, validation.Body[handlers.SignInRequest](), m.Handler.SignIn)
	rg.POST("/signout", m.Handler.SignOut)
}
