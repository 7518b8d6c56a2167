package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/solidon/donation-backend/internal/ai"
	"github.com/solidon/donation-backend/internal/repository"
)

type AIHandler struct {
	categoryRepo repository.CategoryRepository
	client       *ai.CategoryClient
}

func NewAIHandler(categoryRepo repository.CategoryRepository, client *ai.CategoryClient) *AIHandler {
	return &AIHandler{categoryRepo: categoryRepo, client: client}
}

type suggestCategoryRequest struct {
	MaterialType string `json:"materialType" form:"materialType"`
	Description  string `json:"description" form:"description"`
}

// SuggestCategory asks Gemini which seeded category fits the described item.
func (h *AIHandler) SuggestCategory(c echo.Context) error {
	actor := currentActor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing actor"))
	}
	var req suggestCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if req.MaterialType == "" && req.Description == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "materialType or description is required"))
	}

	categories, err := h.categoryRepo.List(c.Request().Context())
	if err != nil || len(categories) == 0 {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "no categories available"))
	}
	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.Name)
	}

	name, err := h.client.Suggest(c.Request().Context(), req.MaterialType, req.Description, names)
	if err != nil {
		return c.JSON(http.StatusBadGateway, NewErrorResponse("upstream_error", "failed to suggest a category"))
	}
	for _, cat := range categories {
		if cat.Name == name {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"categoryId": cat.ID,
				"name":       cat.Name,
			})
		}
	}
	return c.JSON(http.StatusBadGateway, NewErrorResponse("upstream_error", "failed to suggest a category"))
}
