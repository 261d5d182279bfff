package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

// CatalogHandler serves the active products and services.
type CatalogHandler struct {
	catalog ports.CatalogRepository
}

func NewCatalogHandler(catalog ports.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type catalogResponse struct {
	Products []*domain.Product `json:"products"`
	Services []*domain.Service `json:"services"`
}

// List returns every active product and service.
//
// @Summary      Browse the catalog
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  catalogResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	services, err := h.catalog.ListServices(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, catalogResponse{Products: products, Services: services})
}
