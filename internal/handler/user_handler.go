package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type UserResponse struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Vehicle   string `json:"vehicle,omitempty"`
	Available bool   `json:"available"`
	CreatedAt string `json:"createdAt"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		UID:       u.UID,
		Name:      u.Name,
		Role:      string(u.Role),
		Phone:     u.Phone,
		Address:   u.Address,
		Vehicle:   u.Vehicle,
		Available: u.Available,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Register creates the profile for the authenticated uid. The actor
// middleware tolerates a missing profile so first-time users can reach this.
func (h *UserHandler) Register(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body struct {
		Name    string `json:"name" form:"name"`
		Role    string `json:"role" form:"role"`
		Phone   string `json:"phone" form:"phone"`
		Address string `json:"address" form:"address"`
		Vehicle string `json:"vehicle" form:"vehicle"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	u, err := h.svc.Register(c.Request().Context(), uid, service.RegisterUserInput{
		Name:    body.Name,
		Role:    model.Role(body.Role),
		Phone:   body.Phone,
		Address: body.Address,
		Vehicle: body.Vehicle,
	})
	if err != nil {
		if errors.Is(err, service.ErrConflict) && u != nil {
			return c.JSON(http.StatusOK, toUserResponse(u))
		}
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *UserHandler) Me(c echo.Context) error {
	actor := currentActor(c)
	if actor == nil {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no profile for this uid"))
	}
	return c.JSON(http.StatusOK, toUserResponse(actor))
}

func (h *UserHandler) GetPublic(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid uid"))
	}
	u, err := h.svc.FindByUID(c.Request().Context(), uid)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, UserResponse{
		UID:  u.UID,
		Name: u.Name,
		Role: string(u.Role),
	})
}

func (h *UserHandler) AvailableTransporters(c echo.Context) error {
	list, err := h.svc.ListAvailableTransporters(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]UserResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toUserResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) SetAvailability(c echo.Context) error {
	var body struct {
		Available *bool `json:"available" form:"available"`
	}
	if err := c.Bind(&body); err != nil || body.Available == nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "available is required"))
	}
	u, err := h.svc.SetAvailability(c.Request().Context(), currentActor(c), *body.Available)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}
