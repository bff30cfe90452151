package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/mesto-api/config"
	"github.com/oksasatya/mesto-api/internal/application"
	"github.com/oksasatya/mesto-api/internal/bootstrap"
	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/pkg/helpers"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

var demoCards = []struct{ name, link string }{
	{"Архыз", "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/arkhyz.jpg"},
	{"Байкал", "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/baikal.jpg"},
	{"Камчатка", "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/kamchatka.jpg"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	validation.Init()
	ctx := context.Background()

	stores, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer stores.Close()

	users := application.NewUserService(stores.Users, stores.Cards, helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL), logger)
	cards := application.NewCardService(stores.Cards)

	email := "demo@mesto.dev"
	password := "password123"
	u, err := users.SignUp(ctx, application.SignUpInput{Email: email, Password: password})
	switch {
	case apperror.IsKind(err, apperror.KindDuplicateKey):
		if u, err = stores.Users.GetByEmail(ctx, email); err != nil {
			log.Fatalf("failed to load existing user: %v", err)
		}
		fmt.Printf("user exists: id=%s email=%s\n", u.ID, email)
		return
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)

	p := entity.Principal{ID: u.ID}
	for _, dc := range demoCards {
		c, err := cards.Create(ctx, p, dc.name, dc.link)
		if err != nil {
			var ae *apperror.Error
			if errors.As(err, &ae) {
				log.Fatalf("failed to seed card %q: %s %v", dc.name, ae.Message, ae.Detail)
			}
			log.Fatalf("failed to seed card %q: %v", dc.name, err)
		}
		fmt.Printf("seeded card: id=%s name=%s\n", c.ID, c.Name)
	}
}
