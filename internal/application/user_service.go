package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/internal/domain/entity"
	repo "github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
	"github.com/oksasatya/mesto-api/pkg/helpers"
	"github.com/oksasatya/mesto-api/pkg/mailer"
	mailtpl "github.com/oksasatya/mesto-api/pkg/mailer/templates"
)

const (
	msgBadCredentials = "incorrect email or password"
	msgEmptyPatch     = "at least one of name, about, avatar is required"
	msgUploadDisabled = "avatar upload is not configured"
	defaultSearchSize = 10
	maxSearchSize     = 50
	sideEffectTimeout = 3 * time.Second
)

var errUploadDisabled = errors.New(msgUploadDisabled)

// UserService implements sign-up, sign-in and profile operations. Index,
// Avatars and Mail are optional.
type UserService struct {
	Users   repo.UserRepository
	Cards   repo.CardRepository
	JWT     *helpers.JWTManager
	Index   UserIndex
	Avatars AvatarStore
	Mail    Publisher
	Logger  *logrus.Logger
}

func NewUserService(users repo.UserRepository, cards repo.CardRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Cards: cards, JWT: jwt, Logger: logger}
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	About    string
	Avatar   string
}

// SignUp creates a user with a hashed password. Omitted profile fields get
// the defaults.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, apperror.Validation("", map[string]string{"password": "must be at most 72 bytes"})
	}
	if err != nil {
		return nil, apperror.Internal("", err)
	}
	u := &entity.User{
		Email:    strings.TrimSpace(in.Email),
		Password: hash,
		Name:     orDefault(in.Name, entity.DefaultUserName),
		About:    orDefault(in.About, entity.DefaultUserAbout),
		Avatar:   orDefault(in.Avatar, entity.DefaultUserAvatar),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, store.Translate(err)
	}
	s.index(ctx, u)
	s.notify(ctx, u, mailtpl.Welcome, nil)
	return u, nil
}

// SignIn checks the credentials and issues a token. An unknown email and a
// wrong password fail the same way.
func (s *UserService) SignIn(ctx context.Context, email, password string) (string, time.Time, *entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return "", time.Time{}, nil, apperror.NotAuthorized(msgBadCredentials)
		}
		return "", time.Time{}, nil, store.Translate(err)
	}
	if !helpers.PasswordMatches(u.Password, password) {
		return "", time.Time{}, nil, apperror.NotAuthorized(msgBadCredentials)
	}
	token, exp, err := s.JWT.Sign(u.ID)
	if err != nil {
		return "", time.Time{}, nil, apperror.Internal("", err)
	}
	return token, exp, u, nil
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, store.Translate(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, store.Translate(err)
	}
	return u, nil
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, p entity.Principal) (*entity.User, error) {
	return s.Get(ctx, p.ID)
}

// UpdateProfile applies patch to the caller's record.
func (s *UserService) UpdateProfile(ctx context.Context, p entity.Principal, patch entity.ProfilePatch) (*entity.User, error) {
	if patch.Empty() {
		return nil, apperror.Validation(msgEmptyPatch, nil)
	}
	if err := RequireAuthenticated(p); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, store.Translate(err)
	}
	changes := changedFields(u, patch)
	patch.Apply(u)
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, store.Translate(err)
	}
	s.index(ctx, u)
	if len(changes) > 0 {
		s.notify(ctx, u, mailtpl.ProfileUpdated, changes)
	}
	return u, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, p entity.Principal, avatar string) (*entity.User, error) {
	return s.UpdateProfile(ctx, p, entity.ProfilePatch{Avatar: &avatar})
}

// UploadAvatar stores the image and points the caller's avatar at it.
func (s *UserService) UploadAvatar(ctx context.Context, p entity.Principal, filename, contentType string, r io.Reader) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, apperror.Internal(msgUploadDisabled, errUploadDisabled)
	}
	if err := RequireAuthenticated(p); err != nil {
		return nil, err
	}
	url, err := s.Avatars.Upload(ctx, p.ID, filename, contentType, r)
	if err != nil {
		return nil, apperror.Internal("", err)
	}
	return s.UpdateAvatar(ctx, p, url)
}

// Delete removes the user record userID and the cards it owns. Only the user
// itself may do so.
func (s *UserService) Delete(ctx context.Context, p entity.Principal, userID string) error {
	if err := RequireSelf(p, userID); err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return store.Translate(err)
	}
	if err := s.Cards.DeleteByOwner(ctx, userID); err != nil {
		return store.Translate(err)
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		return store.Translate(err)
	}
	if s.Index != nil {
		c, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		defer cancel()
		if err := s.Index.Remove(c, userID); err != nil {
			s.warn(err, userID, "search index remove failed")
		}
	}
	s.notify(ctx, u, mailtpl.AccountDeleted, nil)
	return nil
}

// Search finds users by name, about or email. Without an index it scans the
// store.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]entity.User, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.User{}, nil
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	if s.Index == nil {
		return s.scan(ctx, q, size)
	}

	ids, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal("", err)
	}
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.Users.GetByID(ctx, id)
		if err != nil {
			// index may lag behind deletes
			if errors.Is(err, store.ErrDocumentNotFound) {
				continue
			}
			return nil, store.Translate(err)
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *UserService) scan(ctx context.Context, q string, size int) ([]entity.User, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, store.Translate(err)
	}
	needle := strings.ToLower(q)
	out := make([]entity.User, 0, size)
	for _, u := range users {
		hay := strings.ToLower(u.Name + " " + u.About + " " + u.Email)
		if strings.Contains(hay, needle) {
			out = append(out, u)
			if len(out) == size {
				break
			}
		}
	}
	return out, nil
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.Index.Index(c, u); err != nil {
		s.warn(err, u.ID, "search index failed")
	}
}

func (s *UserService) notify(ctx context.Context, u *entity.User, template string, changes map[string]string) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data:     mailtpl.ToMap(mailtpl.NewEmailData(u.Name, u.Email, mailtpl.WithChanges(changes))),
	}
	c, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.Mail.PublishJSON(c, job); err != nil {
		s.warn(err, u.ID, "enqueue email failed")
	}
}

func (s *UserService) warn(err error, userID, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn(msg)
	}
}

func changedFields(u *entity.User, p entity.ProfilePatch) map[string]string {
	out := map[string]string{}
	if p.Name != nil && *p.Name != u.Name {
		out["Name"] = *p.Name
	}
	if p.About != nil && *p.About != u.About {
		out["About"] = *p.About
	}
	if p.Avatar != nil && *p.Avatar != u.Avatar {
		out["Avatar"] = *p.Avatar
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
