package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahmedtravel/playbook/internal/adapters/http/dto"
	"github.com/ahmedtravel/playbook/internal/app"
	"github.com/ahmedtravel/playbook/internal/domain"
)

// CatalogHandler serves tours and the pricing reference data from the
// current catalog snapshot.
type CatalogHandler struct {
	catalog *app.CatalogService
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(catalog *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListTours handles GET /api/v1/tours?category=&cursor=&limit=.
func (h *CatalogHandler) ListTours(c *gin.Context) {
	var query dto.ToursQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	tours, err := h.catalog.Tours(c.Request.Context(), query.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	page, err := dto.Paginate(dto.NewToursResponse(tours), query.PaginationRequest, func(t dto.TourResponse) string {
		return t.ID
	})
	if err != nil {
		if errors.Is(err, dto.ErrInvalidCursor) {
			dto.RespondWithCode(c, dto.ErrorCodeBadRequest, err.Error())
			return
		}

		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, page)
}

// GetTour handles GET /api/v1/tours/:id.
func (h *CatalogHandler) GetTour(c *gin.Context) {
	tour, err := h.catalog.Tour(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTourResponse(tour))
}

// CompareTours handles GET /api/v1/tours/compare?ids=a,b,c.
func (h *CatalogHandler) CompareTours(c *gin.Context) {
	var query dto.CompareQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	cmp, err := h.catalog.Compare(c.Request.Context(), query.TourIDs())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewComparisonResponse(cmp.Comparison, cmp.Catalog))
}

// Categories handles GET /api/v1/categories.
func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewCategoriesResponse(h.catalog.Catalog()))
}

// Vehicles handles GET /api/v1/vehicles.
func (h *CatalogHandler) Vehicles(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewVehiclesResponse(h.catalog.Catalog().Vehicles))
}

// Zones handles GET /api/v1/zones.
func (h *CatalogHandler) Zones(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewZonesResponse(h.catalog.Catalog().Zones))
}

// Attractions handles GET /api/v1/attractions.
func (h *CatalogHandler) Attractions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewAttractionsResponse(h.catalog.Catalog().Attractions))
}

// Combos handles GET /api/v1/combos.
func (h *CatalogHandler) Combos(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewCombosResponse(h.catalog.Catalog().Combos))
}

// RegisterCatalogRoutes registers tour and reference data routes.
func (h *CatalogHandler) RegisterCatalogRoutes(rg *gin.RouterGroup) {
	tours := rg.Group("/tours")
	tours.GET("", h.ListTours)
	tours.GET("/compare", h.CompareTours)
	tours.GET("/:id", h.GetTour)

	rg.GET("/categories", h.Categories)
	rg.GET("/vehicles", h.Vehicles)
	rg.GET("/zones", h.Zones)
	rg.GET("/attractions", h.Attractions)
	rg.GET("/combos", h.Combos)
}

// AdminHandler runs catalog maintenance: refreshing the snapshot and
// ingesting supplier products.
type AdminHandler struct {
	catalog *app.CatalogService
	ingest  *app.IngestService
}

// NewAdminHandler creates an admin handler. ingest may be nil when no
// product store is configured.
func NewAdminHandler(catalog *app.CatalogService, ingest *app.IngestService) *AdminHandler {
	return &AdminHandler{catalog: catalog, ingest: ingest}
}

// Refresh handles POST /api/v1/catalog/refresh.
func (h *AdminHandler) Refresh(c *gin.Context) {
	result, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		dto.HandleError(c, domain.NewUnavailableError("catalog", err.Error()))
		return
	}

	c.JSON(http.StatusOK, result)
}

// IngestProducts handles POST /api/v1/catalog/products. The body is a JSON
// array of products; the whole batch is rejected if any product is invalid.
func (h *AdminHandler) IngestProducts(c *gin.Context) {
	if h.ingest == nil {
		dto.HandleError(c, domain.NewUnavailableError("product store", "not configured"))
		return
	}

	var products []domain.Product
	if err := c.ShouldBindJSON(&products); err != nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "malformed request: "+err.Error())
		return
	}

	result, err := h.ingest.Ingest(c.Request.Context(), products)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Stats handles GET /api/v1/catalog/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	if h.ingest == nil {
		dto.HandleError(c, domain.NewUnavailableError("product store", "not configured"))
		return
	}

	stats, err := h.ingest.Stats(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProductStatsResponse(stats))
}

// RegisterAdminRoutes registers catalog maintenance routes. Ingestion is
// wrapped in guard.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	catalog := rg.Group("/catalog")
	catalog.POST("/refresh", h.Refresh)
	catalog.GET("/stats", h.Stats)
	catalog.POST("/products", guard, h.IngestProducts)
}
