package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/repository"
)

// CategoryHandler serves the category tree used by proposition and demande
// forms. Read-only; the tree comes from cmd/seed.
type CategoryHandler struct {
	repo repository.CategoryRepository
}

func NewCategoryHandler(repo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

type CategoryResponse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ParentID    *uint64 `json:"parentId,omitempty"`
}

func toCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
	}
}

func (h *CategoryHandler) List(c echo.Context) error {
	list, err := h.repo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch categories"))
	}
	resp := make([]CategoryResponse, 0, len(list))
	for _, cat := range list {
		resp = append(resp, toCategoryResponse(cat))
	}
	return c.JSON(http.StatusOK, resp)
}
