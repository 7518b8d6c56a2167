package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/service"
	"github.com/solidon/donation-backend/internal/storage"
)

type PropositionHandler struct {
	svc      service.PropositionService
	stockSvc service.StockService
	uploader *storage.PhotoUploader
}

func NewPropositionHandler(svc service.PropositionService, stockSvc service.StockService, uploader *storage.PhotoUploader) *PropositionHandler {
	return &PropositionHandler{svc: svc, stockSvc: stockSvc, uploader: uploader}
}

type PropositionResponse struct {
	ID                  uint64  `json:"id"`
	DonorUID            string  `json:"donorUid"`
	CategoryID          *uint64 `json:"categoryId,omitempty"`
	MaterialType        string  `json:"materialType"`
	Quantity            int     `json:"quantity"`
	Description         string  `json:"description"`
	Condition           string  `json:"condition"`
	PhotoURL            *string `json:"photoUrl,omitempty"`
	PickupAddress       string  `json:"pickupAddress"`
	City                string  `json:"city"`
	PostalCode          string  `json:"postalCode"`
	PickupAvailability  string  `json:"pickupAvailability"`
	Status              string  `json:"status"`
	ValidatorUID        *string `json:"validatorUid,omitempty"`
	ValidatedAt         *string `json:"validatedAt,omitempty"`
	RefusalReason       string  `json:"refusalReason,omitempty"`
	TransporterUID      *string `json:"transporterUid,omitempty"`
	TransporterStatus   string  `json:"transporterStatus"`
	DonorConfirmed      bool    `json:"donorConfirmedHandoff"`
	TransporterReceived bool    `json:"transporterReceived"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

func toPropositionResponse(p *model.Proposition) PropositionResponse {
	var validatedAt *string
	if p.ValidatedAt != nil {
		val := p.ValidatedAt.Format(time.RFC3339)
		validatedAt = &val
	}
	return PropositionResponse{
		ID:                  p.ID,
		DonorUID:            p.DonorUID,
		CategoryID:          p.CategoryID,
		MaterialType:        p.MaterialType,
		Quantity:            p.Quantity,
		Description:         p.Description,
		Condition:           string(p.Condition),
		PhotoURL:            p.PhotoURL,
		PickupAddress:       p.PickupAddress,
		City:                p.City,
		PostalCode:          p.PostalCode,
		PickupAvailability:  p.PickupAvailability,
		Status:              string(p.Status),
		ValidatorUID:        p.ValidatorUID,
		ValidatedAt:         validatedAt,
		RefusalReason:       p.RefusalReason,
		TransporterUID:      p.TransporterUID,
		TransporterStatus:   string(p.TransporterStatus),
		DonorConfirmed:      p.DonorConfirmedHandoff,
		TransporterReceived: p.TransporterReceived,
		CreatedAt:           p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           p.UpdatedAt.Format(time.RFC3339),
	}
}

func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func (h *PropositionHandler) Create(c echo.Context) error {
	actor := currentActor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing actor"))
	}
	var body struct {
		CategoryID         *uint64 `json:"categoryId" form:"categoryId"`
		MaterialType       string  `json:"materialType" form:"materialType"`
		Quantity           int     `json:"quantity" form:"quantity"`
		Description        string  `json:"description" form:"description"`
		Condition          string  `json:"condition" form:"condition"`
		PickupAddress      string  `json:"pickupAddress" form:"pickupAddress"`
		City               string  `json:"city" form:"city"`
		PostalCode         string  `json:"postalCode" form:"postalCode"`
		PickupAvailability string  `json:"pickupAvailability" form:"pickupAvailability"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	p, err := h.svc.Submit(c.Request().Context(), actor, service.SubmitPropositionInput{
		CategoryID:         body.CategoryID,
		MaterialType:       body.MaterialType,
		Quantity:           body.Quantity,
		Description:        body.Description,
		Condition:          model.ItemCondition(body.Condition),
		PickupAddress:      body.PickupAddress,
		City:               body.City,
		PostalCode:         body.PostalCode,
		PickupAvailability: body.PickupAvailability,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toPropositionResponse(p))
}

func (h *PropositionHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposition id"))
	}
	p, err := h.svc.Get(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionResponse(p))
}

func (h *PropositionHandler) ListMine(c echo.Context) error {
	actor := currentActor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing actor"))
	}
	list, err := h.svc.ListByDonor(c.Request().Context(), actor)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionList(list))
}

func (h *PropositionHandler) ListPending(c echo.Context) error {
	list, err := h.svc.ListPending(c.Request().Context(), currentActor(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionList(list))
}

func (h *PropositionHandler) ListMissions(c echo.Context) error {
	list, err := h.svc.ListMissions(c.Request().Context(), currentActor(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionList(list))
}

func toPropositionList(list []model.Proposition) []PropositionResponse {
	resp := make([]PropositionResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toPropositionResponse(&list[i]))
	}
	return resp
}

func (h *PropositionHandler) Validate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposition id"))
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
	p, err := h.svc.Validate(c.Request().Context(), currentActor(c), id, approve, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionResponse(p))
}

func (h *PropositionHandler) Assign(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposition id"))
	}
	var body struct {
		TransporterID string `json:"transporterId" form:"transporterId"`
	}
	if err := c.Bind(&body); err != nil || body.TransporterID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "transporterId is required"))
	}
	p, err := h.svc.AssignTransporter(c.Request().Context(), currentActor(c), id, body.TransporterID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionResponse(p))
}

func (h *PropositionHandler) Respond(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposition id"))
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
	p, err := h.svc.TransporterRespond(c.Request().Context(), currentActor(c), id, accept, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionResponse(p))
}

func (h *PropositionHandler) ConfirmHandoff(c echo.Context) error {
	return h.simpleTransition(c, h.svc.ConfirmHandoff)
}

func (h *PropositionHandler) ConfirmReceipt(c echo.Context) error {
	return h.simpleTransition(c, h.svc.ConfirmReceipt)
}

func (h *PropositionHandler) Complete(c echo.Context) error {
	return h.simpleTransition(c, h.svc.Complete)
}

func (h *PropositionHandler) Cancel(c echo.Context) error {
	return h.simpleTransition(c, h.svc.Cancel)
}

func (h *PropositionHandler) simpleTransition(c echo.Context, fn func(ctx context.Context, actor *model.User, id uint64) (*model.Proposition, error)) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposition id"))
	}
	p, err := fn(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionResponse(p))
}

// ConvertToStock turns a handed-off proposition into a stock entry.
func (h *PropositionHandler) ConvertToStock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposition id"))
	}
	don, err := h.stockSvc.ConvertToStock(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toDonResponse(don))
}

// UploadPhoto stores the request body in the photo bucket and records the URL.
func (h *PropositionHandler) UploadPhoto(c echo.Context) error {
	if !h.uploader.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("unavailable", "photo storage is not configured"))
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposition id"))
	}
	file, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "photo file is required"))
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read photo"))
	}
	defer src.Close()
	url, err := h.uploader.Upload(c.Request().Context(), src, file.Header.Get("Content-Type"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "photo upload failed"))
	}
	p, err := h.svc.SetPhotoURL(c.Request().Context(), currentActor(c), id, url)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPropositionResponse(p))
}

func parseDecision(action, positive, negative string) (value, ok bool) {
	switch action {
	case positive:
		return true, true
	case negative:
		return false, true
	default:
		return false, false
	}
}
