package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mesto-api/internal/application"
	"github.com/oksasatya/mesto-api/pkg/response"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

const MsgCardDeleted = "card deleted"

type CardHandler struct {
	Svc *application.CardService
}

func NewCardHandler(svc *application.CardService) *CardHandler {
	return &CardHandler{Svc: svc}
}

// CreateCardRequest has no owner field; the owner is always the caller.
type CreateCardRequest struct {
	Name string `json:"name" binding:"required,cardname"`
	Link string `json:"link" binding:"required,weblink"`
}

func (h *CardHandler) List(c *gin.Context) {
	cards, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// Create expects validation.Body[CreateCardRequest] before it.
func (h *CardHandler) Create(c *gin.Context) {
	req := validation.BodyFrom[CreateCardRequest](c)
	card, err := h.Svc.Create(c.Request.Context(), principal(c), req.Name, req.Link)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *CardHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), principal(c), c.Param("cardId")); err != nil {
		fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, MsgCardDeleted)
}

func (h *CardHandler) Like(c *gin.Context) {
	card, err := h.Svc.Like(c.Request.Context(), principal(c), c.Param("cardId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) Unlike(c *gin.Context) {
	card, err := h.Svc.Unlike(c.Request.Context(), principal(c), c.Param("cardId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
