package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
)

func TestIsWebLink(t *testing.T) {
	valid := []string{
		"https://x.com/a.jpg",
		"http://example.com",
		"https://www.example.com/path/to?x=1#top",
		"https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png",
	}
	for _, s := range valid {
		assert.True(t, IsWebLink(s), s)
	}
	invalid := []string{
		"",
		"ftp://example.com/a.png",
		"https://localhost/a.png",
		"example.com/a.png",
		"https://exa mple.com/",
		"javascript:alert(1)",
	}
	for _, s := range invalid {
		assert.False(t, IsWebLink(s), s)
	}
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Avatar   string `json:"avatar" validate:"omitempty,weblink"`
}

func TestNew_DetailsUseJSONNames(t *testing.T) {
	err := New().Struct(signup{Email: "nope", Password: "123", Avatar: "not-a-link"})
	require.Error(t, err)

	got := ToDetails(err)
	assert.Equal(t, map[string]string{
		"email":    "must be a valid email",
		"password": "must be at least 6 characters long",
		"avatar":   "must be a valid URL",
	}, got)
}

type profile struct {
	Name  string `json:"name" validate:"username"`
	About string `json:"about" validate:"userabout"`
	Card  string `json:"card" validate:"cardname"`
}

func TestToDetails_LengthAliases(t *testing.T) {
	err := New().Struct(profile{Name: "A", About: "x", Card: "L"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"name":  "must be 2 to 30 characters long",
		"about": "must be 2 to 200 characters long",
		"card":  "must be 2 to 30 characters long",
	}, ToDetails(err))

	assert.NoError(t, New().Struct(profile{Name: "Al", About: "ok", Card: "Li"}))
}

func TestToDetails_Payload(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}

type cardBody struct {
	Name string `json:"name" binding:"required,cardname"`
	Link string `json:"link" binding:"required,weblink"`
}

func TestBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()

	r := gin.New()
	var got *apperror.Error
	r.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			got, _ = apperror.As(c.Errors.Last().Err)
			c.JSON(got.Status, gin.H{"message": got.Message})
		}
	})
	r.POST("/cards", Body[cardBody](), func(c *gin.Context) {
		c.JSON(http.StatusCreated, BodyFrom[cardBody](c))
	})

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(`{"name":"Lake","link":"https://x.com/a.jpg"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"name":"Lake","link":"https://x.com/a.jpg"}`, w.Body.String())
	})

	t.Run("invalid", func(t *testing.T) {
		got = nil
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(`{"name":"L","link":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, got)
		assert.Equal(t, apperror.KindValidation, got.Kind)
		assert.Equal(t, map[string]string{
			"name": "must be 2 to 30 characters long",
			"link": "must be a valid URL",
		}, got.Detail)
	})

	t.Run("empty body", func(t *testing.T) {
		got = nil
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cards", nil)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, got)
		assert.Equal(t, map[string]string{"payload": "body is required"}, got.Detail)
	})
}
