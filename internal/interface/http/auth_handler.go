package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mesto-api/internal/application"
	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/pkg/helpers"
	"github.com/oksasatya/mesto-api/pkg/response"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

const MsgSignedOut = "signed out"

// AuthHandler serves the public sign-up, sign-in and sign-out routes.
type AuthHandler struct {
	Svc     *application.UserService
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.UserService, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,min=3,max=30,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"omitempty,username"`
	About    string `json:"about" binding:"omitempty,userabout"`
	Avatar   string `json:"avatar" binding:"omitempty,weblink"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signInResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// SignUp expects validation.Body[SignUpRequest] before it.
func (h *AuthHandler) SignUp(c *gin.Context) {
	req := validation.BodyFrom[SignUpRequest](c)
	u, err := h.Svc.SignUp(c.Request.Context(), application.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		About:    req.About,
		Avatar:   req.Avatar,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// SignIn expects validation.Body[SignInRequest] before it.
func (h *AuthHandler) SignIn(c *gin.Context) {
	req := validation.BodyFrom[SignInRequest](c)
	token, exp, u, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.Cookies.SetToken(c, token, exp)
	c.JSON(http.StatusOK, signInResponse{Token: token, User: u})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Message(c, http.StatusOK, MsgSignedOut)
}
