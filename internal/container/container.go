package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mesto-api/config"
	repo "github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/pkg/helpers"
	"github.com/oksasatya/mesto-api/pkg/mailer"
)

// app-level container to share constructed components across packages.
// The router wires its modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	errLogger   *logrus.Logger
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client

	jwtManager *helpers.JWTManager

	users repo.UserRepository
	cards repo.CardRepository

	mailgunClient *mailer.Mailgun
	emailQueue    *helpers.RabbitQueue
)

func SetConfig(c *config.Config)      { cfg = c }
func GetConfig() *config.Config       { return cfg }
func SetLogger(l *logrus.Logger)      { logger = l }
func GetLogger() *logrus.Logger       { return logger }
func SetErrorLogger(l *logrus.Logger) { errLogger = l }

// GetErrorLogger returns the failure log, falling back to the main logger.
func GetErrorLogger() *logrus.Logger {
	if errLogger != nil {
		return errLogger
	}
	return logger
}

func SetRedis(r *redis.Client)             { redisClient = r }
func GetRedis() *redis.Client              { return redisClient }
func SetGCS(s *storage.Client)             { gcsClient = s }
func GetGCS() *storage.Client              { return gcsClient }
func SetES(c *elasticsearch.Client)        { esClient = c }
func GetES() *elasticsearch.Client         { return esClient }
func SetJWT(m *helpers.JWTManager)         { jwtManager = m }
func GetJWT() *helpers.JWTManager          { return jwtManager }
func SetUsers(r repo.UserRepository)       { users = r }
func GetUsers() repo.UserRepository        { return users }
func SetCards(r repo.CardRepository)       { cards = r }
func GetCards() repo.CardRepository        { return cards }
func SetMailgun(m *mailer.Mailgun)         { mailgunClient = m }
func GetMailgun() *mailer.Mailgun          { return mailgunClient }
func SetEmailQueue(q *helpers.RabbitQueue) { emailQueue = q }
func GetEmailQueue() *helpers.RabbitQueue  { return emailQueue }
