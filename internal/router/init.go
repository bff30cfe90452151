package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mesto-api/internal/application"
	"github.com/oksasatya/mesto-api/internal/container"
	repo "github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/objectstore"
	"github.com/oksasatya/mesto-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/mesto-api/internal/interface/http"
	"github.com/oksasatya/mesto-api/internal/router/modules"
	"github.com/oksasatya/mesto-api/pkg/helpers"
)

// Deps is everything the modules need. Index, Avatars, Mail and Redis are
// optional.
type Deps struct {
	Users   repo.UserRepository
	Cards   repo.CardRepository
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager
	Redis   *redis.Client
	Index   application.UserIndex
	Avatars application.AvatarStore
	Mail    application.Publisher
	Logger  *logrus.Logger

	DebugMetrics bool
}

// DepsFromContainer collects the singletons set up by main.
func DepsFromContainer() Deps {
	cfg := container.GetConfig()
	d := Deps{
		Users:        container.GetUsers(),
		Cards:        container.GetCards(),
		JWT:          container.GetJWT(),
		Cookies:      helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		Redis:        container.GetRedis(),
		Logger:       container.GetLogger(),
		DebugMetrics: cfg.DebugMetricsEnabled,
	}
	// Interfaces stay nil unless the backing client exists.
	if es := container.GetES(); es != nil {
		d.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		d.Avatars = objectstore.NewAvatarStore(gcs, cfg.GCSBucket)
	}
	if q := container.GetEmailQueue(); q != nil && cfg.MailSendEnabled {
		d.Mail = q
	}
	return d
}

// InitModules builds services and handlers from d and adds every module to r.
func InitModules(r *Registry, d Deps) {
	users := application.NewUserService(d.Users, d.Cards, d.JWT, d.Logger)
	users.Index = d.Index
	users.Avatars = d.Avatars
	users.Mail = d.Mail
	cards := application.NewCardService(d.Cards)

	r.Add(modules.NewOpsModule(handlers.NewHealthHandler(d.Users), d.Redis, d.DebugMetrics))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(users, d.Cookies), d.Redis))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(users), d.JWT, d.Redis))
	r.Add(modules.NewCardModule(handlers.NewCardHandler(cards), d.JWT, d.Redis))
}
