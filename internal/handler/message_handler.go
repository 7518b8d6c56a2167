package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/service"
)

type MessageHandler struct {
	svc service.MessageService
}

func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type MessageResponse struct {
	ID          uint64 `json:"id"`
	SenderUID   string `json:"senderUid"`
	ReceiverUID string `json:"receiverUid"`
	Body        string `json:"body"`
	CreatedAt   string `json:"createdAt"`
}

func toMessageResponse(m model.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderUID:   m.SenderUID,
		ReceiverUID: m.ReceiverUID,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

func (h *MessageHandler) Create(c echo.Context) error {
	actor := currentActor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing actor"))
	}
	var body struct {
		ReceiverUID string `json:"receiverUid" form:"receiverUid"`
		Body        string `json:"body" form:"body"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	msg, err := h.svc.Send(c.Request().Context(), actor, body.ReceiverUID, body.Body)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toMessageResponse(*msg))
}

func (h *MessageHandler) Thread(c echo.Context) error {
	actor := currentActor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing actor"))
	}
	list, err := h.svc.Thread(c.Request().Context(), actor, c.Param("uid"))
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]MessageResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}
