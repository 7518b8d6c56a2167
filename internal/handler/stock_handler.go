package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/service"
)

type StockHandler struct {
	svc service.StockService
}

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

type DonResponse struct {
	ID              uint64   `json:"id"`
	PropositionID   uint64   `json:"propositionId"`
	Reference       string   `json:"reference"`
	CategoryID      *uint64  `json:"categoryId,omitempty"`
	MaterialType    string   `json:"materialType"`
	Quantity        int      `json:"quantity"`
	Description     string   `json:"description"`
	Condition       string   `json:"condition"`
	PhotoURL        *string  `json:"photoUrl,omitempty"`
	Status          string   `json:"status"`
	StorageLocation string   `json:"storageLocation"`
	EstimatedValue  *float64 `json:"estimatedValue,omitempty"`
	SalePrice       *float64 `json:"salePrice,omitempty"`
	SoldAt          *string  `json:"soldAt,omitempty"`
	Buyer           string   `json:"buyer,omitempty"`
	GivenAt         *string  `json:"givenAt,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

func toDonResponse(d *model.Don) DonResponse {
	fmtTime := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		val := t.Format(time.RFC3339)
		return &val
	}
	return DonResponse{
		ID:              d.ID,
		PropositionID:   d.PropositionID,
		Reference:       d.Reference,
		CategoryID:      d.CategoryID,
		MaterialType:    d.MaterialType,
		Quantity:        d.Quantity,
		Description:     d.Description,
		Condition:       string(d.Condition),
		PhotoURL:        d.PhotoURL,
		Status:          string(d.Status),
		StorageLocation: d.StorageLocation,
		EstimatedValue:  d.EstimatedValue,
		SalePrice:       d.SalePrice,
		SoldAt:          fmtTime(d.SoldAt),
		Buyer:           d.Buyer,
		GivenAt:         fmtTime(d.GivenAt),
		CreatedAt:       d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       d.UpdatedAt.Format(time.RFC3339),
	}
}

func toDonList(list []model.Don) []DonResponse {
	resp := make([]DonResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toDonResponse(&list[i]))
	}
	return resp
}

func (h *StockHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), currentActor(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDonList(list))
}

// Release marks a don as given once the matched demande's requester has
// confirmed reception.
func (h *StockHandler) Release(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid don id"))
	}
	don, err := h.svc.ReleaseFromStock(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDonResponse(don))
}
