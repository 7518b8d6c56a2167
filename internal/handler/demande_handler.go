package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/service"
)

type DemandeHandler struct {
	svc      service.DemandeService
	stockSvc service.StockService
}

func NewDemandeHandler(svc service.DemandeService, stockSvc service.StockService) *DemandeHandler {
	return &DemandeHandler{svc: svc, stockSvc: stockSvc}
}

type DemandeResponse struct {
	ID                   uint64  `json:"id"`
	RequesterUID         string  `json:"requesterUid"`
	CategoryID           *uint64 `json:"categoryId,omitempty"`
	MaterialType         string  `json:"materialType"`
	Description          string  `json:"description"`
	Quantity             int     `json:"quantity"`
	Urgency              string  `json:"urgency"`
	Status               string  `json:"status"`
	ValidatorUID         *string `json:"validatorUid,omitempty"`
	ValidatedAt          *string `json:"validatedAt,omitempty"`
	RefusalReason        string  `json:"refusalReason,omitempty"`
	DeliveryAddress      string  `json:"deliveryAddress"`
	City                 string  `json:"city"`
	PostalCode           string  `json:"postalCode"`
	DonID                *uint64 `json:"donId,omitempty"`
	AttributedAt         *string `json:"attributedAt,omitempty"`
	TransporterUID       *string `json:"transporterUid,omitempty"`
	TransporterConfirmed bool    `json:"transporterConfirmed"`
	DeliveredAt          *string `json:"deliveredAt,omitempty"`
	ReceptionConfirmed   bool    `json:"receptionConfirmed"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

func toDemandeResponse(d *model.Demande) DemandeResponse {
	fmtTime := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		val := t.Format(time.RFC3339)
		return &val
	}
	return DemandeResponse{
		ID:                   d.ID,
		RequesterUID:         d.RequesterUID,
		CategoryID:           d.CategoryID,
		MaterialType:         d.MaterialType,
		Description:          d.Description,
		Quantity:             d.Quantity,
		Urgency:              string(d.Urgency),
		Status:               string(d.Status),
		ValidatorUID:         d.ValidatorUID,
		ValidatedAt:          fmtTime(d.ValidatedAt),
		RefusalReason:        d.RefusalReason,
		DeliveryAddress:      d.DeliveryAddress,
		City:                 d.City,
		PostalCode:           d.PostalCode,
		DonID:                d.DonID,
		AttributedAt:         fmtTime(d.AttributedAt),
		TransporterUID:       d.TransporterUID,
		TransporterConfirmed: d.TransporterConfirmed,
		DeliveredAt:          fmtTime(d.DeliveredAt),
		ReceptionConfirmed:   d.ReceptionConfirmed,
		CreatedAt:            d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            d.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *DemandeHandler) Create(c echo.Context) error {
	actor := currentActor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing actor"))
	}
	var body struct {
		CategoryID           *uint64 `json:"categoryId" form:"categoryId"`
		MaterialType         string  `json:"materialType" form:"materialType"`
		Description          string  `json:"description" form:"description"`
		Quantity             int     `json:"quantity" form:"quantity"`
		Urgency              string  `json:"urgency" form:"urgency"`
		DeliveryAddress      string  `json:"deliveryAddress" form:"deliveryAddress"`
		City                 string  `json:"city" form:"city"`
		PostalCode           string  `json:"postalCode" form:"postalCode"`
		DeliveryAvailability string  `json:"deliveryAvailability" form:"deliveryAvailability"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	d, err := h.svc.Submit(c.Request().Context(), actor, service.SubmitDemandeInput{
		CategoryID:           body.CategoryID,
		MaterialType:         body.MaterialType,
		Description:          body.Description,
		Quantity:             body.Quantity,
		Urgency:              model.Urgency(body.Urgency),
		DeliveryAddress:      body.DeliveryAddress,
		City:                 body.City,
		PostalCode:           body.PostalCode,
		DeliveryAvailability: body.DeliveryAvailability,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toDemandeResponse(d))
}

func (h *DemandeHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid demande id"))
	}
	d, err := h.svc.Get(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeResponse(d))
}

func (h *DemandeHandler) ListMine(c echo.Context) error {
	actor := currentActor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing actor"))
	}
	list, err := h.svc.ListByRequester(c.Request().Context(), actor)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeList(list))
}

func (h *DemandeHandler) ListPending(c echo.Context) error {
	list, err := h.svc.ListPending(c.Request().Context(), currentActor(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeList(list))
}

func (h *DemandeHandler) ListMissions(c echo.Context) error {
	list, err := h.svc.ListMissions(c.Request().Context(), currentActor(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeList(list))
}

func toDemandeList(list []model.Demande) []DemandeResponse {
	resp := make([]DemandeResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toDemandeResponse(&list[i]))
	}
	return resp
}

func (h *DemandeHandler) Validate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid demande id"))
	}
	var body struct {
		Action string `json:"action" form:"action"`
		Reason string `json:"reason" form:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	approve, ok := parseDecision(body.Action, "approve", "refuse")
	if !ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "action must be approve or refuse"))
	}
	d, err := h.svc.Validate(c.Request().Context(), currentActor(c), id, approve, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeResponse(d))
}

func (h *DemandeHandler) Assign(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid demande id"))
	}
	var body struct {
		TransporterID string `json:"transporterId" form:"transporterId"`
	}
	if err := c.Bind(&body); err != nil || body.TransporterID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "transporterId is required"))
	}
	d, err := h.svc.AssignTransporter(c.Request().Context(), currentActor(c), id, body.TransporterID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeResponse(d))
}

func (h *DemandeHandler) Respond(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid demande id"))
	}
	var body struct {
		Action string `json:"action" form:"action"`
		Reason string `json:"reason" form:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	accept, ok := parseDecision(body.Action, "accept", "refuse")
	if !ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "action must be accept or refuse"))
	}
	d, err := h.svc.TransporterRespond(c.Request().Context(), currentActor(c), id, accept, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeResponse(d))
}

func (h *DemandeHandler) StartDelivery(c echo.Context) error {
	return h.simpleTransition(c, h.svc.StartDelivery)
}

func (h *DemandeHandler) CompleteDelivery(c echo.Context) error {
	return h.simpleTransition(c, h.svc.CompleteDelivery)
}

func (h *DemandeHandler) simpleTransition(c echo.Context, fn func(ctx context.Context, actor *model.User, id uint64) (*model.Demande, error)) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid demande id"))
	}
	d, err := fn(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeResponse(d))
}

func (h *DemandeHandler) Attribute(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid demande id"))
	}
	var body struct {
		DonID uint64 `json:"donId" form:"donId"`
	}
	if err := c.Bind(&body); err != nil || body.DonID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "donId is required"))
	}
	d, err := h.svc.AttributeDon(c.Request().Context(), currentActor(c), id, body.DonID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeResponse(d))
}

// ConfirmReception is idempotent; a repeat confirmation responds 200 with an
// informational flag instead of an error.
func (h *DemandeHandler) ConfirmReception(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid demande id"))
	}
	d, err := h.svc.ConfirmReception(c.Request().Context(), currentActor(c), id)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyConfirmed) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"demande": toDemandeResponse(d),
				"info":    "already_confirmed",
			})
		}
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDemandeResponse(d))
}

// RelatedStock lists stocked dons matching the demande's desired category.
func (h *DemandeHandler) RelatedStock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid demande id"))
	}
	list, err := h.stockSvc.FindRelatedStock(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDonList(list))
}
