package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mesto-api/internal/infrastructure/memory"
	"github.com/oksasatya/mesto-api/pkg/helpers"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	l := logrus.New()
	l.SetOutput(io.Discard)
	st := memory.New()

	r := NewEngine(EngineOptions{Logger: l, ErrLogger: l})
	reg := NewRegistry(r, "")
	InitModules(reg, Deps{
		Users:   st.Users(),
		Cards:   st.Cards(),
		JWT:     helpers.NewJWTManager("s3cr3t-value", time.Hour),
		Cookies: helpers.NewCookie("", false),
		Logger:  l,
	})
	reg.RegisterAll()
	return r
}

func do(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func jsonList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l), w.Body.String())
	return l
}

// register signs up and signs in, returning the token and user id.
func register(t *testing.T, r http.Handler, email string) (string, string) {
	t.Helper()
	w := do(r, http.MethodPost, "/signup", gin.H{"email": email, "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/signin", gin.H{"email": email, "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := jsonBody(t, w)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["_id"].(string)
}

func createCard(t *testing.T, r http.Handler, token string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/cards", gin.H{"name": "Baikal", "link": "https://x.com/a.jpg"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return jsonBody(t, w)["_id"].(string)
}

func TestSignUp(t *testing.T) {
	r := newServer(t)

	w := do(r, http.MethodPost, "/signup", gin.H{
		"email": "a@b.com", "password": "secret1", "name": "Ann", "about": "Diver", "avatar": "https://x.com/a.jpg",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := jsonBody(t, w)
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, "Ann", body["name"])
	assert.NotEmpty(t, body["_id"])
	assert.NotContains(t, body, "password")

	t.Run("duplicate email", func(t *testing.T) {
		w := do(r, http.MethodPost, "/signup", gin.H{"email": "a@b.com", "password": "secret1"}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
	t.Run("missing password", func(t *testing.T) {
		w := do(r, http.MethodPost, "/signup", gin.H{"email": "c@d.com"}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		detail := jsonBody(t, w)["error"].(map[string]any)
		assert.Contains(t, detail, "password")
	})
	t.Run("bad avatar", func(t *testing.T) {
		w := do(r, http.MethodPost, "/signup", gin.H{"email": "e@f.com", "password": "secret1", "avatar": "not a link"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSignIn(t *testing.T) {
	r := newServer(t)
	do(r, http.MethodPost, "/signup", gin.H{"email": "a@b.com", "password": "secret1"}, "")

	w := do(r, http.MethodPost, "/signin", gin.H{"email": "a@b.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := jsonBody(t, w)
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, body["user"], "password")

	cookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, helpers.TokenCookie+"="), cookie)
	assert.Contains(t, cookie, "HttpOnly")

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Cookie", strings.SplitN(cookie, ";", 2)[0])
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Equal(t, "a@b.com", jsonBody(t, me)["email"])

	for _, creds := range []gin.H{
		{"email": "a@b.com", "password": "wrong-one"},
		{"email": "nobody@b.com", "password": "secret1"},
	} {
		w := do(r, http.MethodPost, "/signin", creds, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestSignOut(t *testing.T) {
	r := newServer(t)
	w := do(r, http.MethodPost, "/signout", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestProtectedRoutes(t *testing.T) {
	r := newServer(t)

	w := do(r, http.MethodGet, "/users/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, jsonBody(t, w)["message"], "/users/me")

	w = do(r, http.MethodGet, "/cards", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUsers(t *testing.T) {
	r := newServer(t)
	token, id := register(t, r, "a@b.com")

	w := do(r, http.MethodGet, "/users", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, jsonList(t, w), 1)

	w = do(r, http.MethodGet, "/users/"+id, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, jsonBody(t, w)["_id"])

	w = do(r, http.MethodGet, "/users/not-an-id", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/users/6f1c2a3e-0000-4000-8000-000000000000", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/users/search?q=cousteau", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, jsonList(t, w), 1)
}

func TestUpdateProfile(t *testing.T) {
	r := newServer(t)
	token, _ := register(t, r, "a@b.com")

	w := do(r, http.MethodPatch, "/users/me", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/users/me", gin.H{"name": "Jacques"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Jacques", jsonBody(t, w)["name"])
	assert.Equal(t, "Explorer", jsonBody(t, w)["about"])

	w = do(r, http.MethodPatch, "/users/me/avatar", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	avatar := "https://x.com/new.jpg?w=1&h=2"
	w = do(r, http.MethodPatch, "/users/me/avatar", gin.H{"avatar": avatar}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(r, http.MethodGet, "/users/me", nil, token)
	assert.Equal(t, avatar, jsonBody(t, w)["avatar"])
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	r := newServer(t)
	token, _ := register(t, r, "a@b.com")

	w := do(r, http.MethodPost, "/users/me/avatar/upload", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCards(t *testing.T) {
	r := newServer(t)
	owner, ownerID := register(t, r, "owner@b.com")
	other, _ := register(t, r, "other@b.com")

	w := do(r, http.MethodPost, "/cards", gin.H{"name": "Baikal", "link": "https://x.com/a.jpg", "owner": "someone-else"}, owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	card := jsonBody(t, w)
	assert.Equal(t, ownerID, card["owner"])
	assert.Equal(t, []any{}, card["likes"])
	id := card["_id"].(string)

	w = do(r, http.MethodPost, "/cards", gin.H{"name": "B", "link": "https://x.com/a.jpg"}, owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	t.Run("non-owner delete", func(t *testing.T) {
		w := do(r, http.MethodDelete, "/cards/"+id, nil, other)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = do(r, http.MethodGet, "/cards", nil, other)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, jsonList(t, w), 1)
	})

	t.Run("like twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			w := do(r, http.MethodPut, "/cards/"+id+"/likes", nil, other)
			require.Equal(t, http.StatusOK, w.Code)
		}
		w := do(r, http.MethodGet, "/cards", nil, other)
		assert.Len(t, jsonList(t, w)[0]["likes"], 1)

		w = do(r, http.MethodDelete, "/cards/"+id+"/likes", nil, other)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, jsonBody(t, w)["likes"])
	})

	t.Run("owner delete", func(t *testing.T) {
		w := do(r, http.MethodDelete, "/cards/"+id, nil, owner)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "card deleted", jsonBody(t, w)["message"])

		w = do(r, http.MethodDelete, "/cards/"+id, nil, owner)
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = do(r, http.MethodPut, "/cards/"+id+"/likes", nil, owner)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestConcurrentLikes(t *testing.T) {
	r := newServer(t)
	token, uid := register(t, r, "a@b.com")
	id := createCard(t, r, token)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(r, http.MethodPut, "/cards/"+id+"/likes", nil, token)
		}()
	}
	wg.Wait()

	w := do(r, http.MethodGet, "/cards", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{uid}, jsonList(t, w)[0]["likes"])
}

func TestDeleteAccount(t *testing.T) {
	r := newServer(t)
	token, _ := register(t, r, "a@b.com")
	other, _ := register(t, r, "other@b.com")
	createCard(t, r, token)

	w := do(r, http.MethodDelete, "/users/me/delete", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, jsonBody(t, w)["message"])

	w = do(r, http.MethodGet, "/cards", nil, other)
	assert.Empty(t, jsonList(t, w))

	// the token outlives the account
	w = do(r, http.MethodGet, "/users/me", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpsAndFallbacks(t *testing.T) {
	r := newServer(t)

	w := do(r, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "resource not found", jsonBody(t, w)["message"])

	w = do(r, http.MethodPatch, "/signup", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = do(r, http.MethodGet, "/debug/vars", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
