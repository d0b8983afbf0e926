package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahmedtravel/playbook/internal/adapters/http/dto"
	"github.com/ahmedtravel/playbook/internal/adapters/http/middleware"
	"github.com/ahmedtravel/playbook/internal/app"
)

// QuoteHandler serves the quote calculator, its exports and the recent
// quotes list.
type QuoteHandler struct {
	pricing *app.PricingService
	export  *app.ExportService
}

// NewQuoteHandler creates a quote handler.
func NewQuoteHandler(pricing *app.PricingService, export *app.ExportService) *QuoteHandler {
	return &QuoteHandler{
		pricing: pricing,
		export:  export,
	}
}

// Calculate handles POST /api/v1/quotes.
//
// @Summary Calculate a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote inputs"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) Calculate(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	q, err := h.pricing.Quote(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(q))
}

// Export handles POST /api/v1/quotes/export?format=text|html|pdf.
func (h *QuoteHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	doc, err := h.export.ExportQuote(c.Request.Context(), query.GetFormat(), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	sendExport(c, doc)
}

// Formats handles GET /api/v1/quotes/export/formats.
func (h *QuoteHandler) Formats(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FormatsResponse{Formats: h.export.Formats(c.Request.Context())})
}

// ListRecent handles GET /api/v1/quotes/recent.
func (h *QuoteHandler) ListRecent(c *gin.Context) {
	recent := h.pricing.Recent(c.Request.Context(), middleware.Owner(c))

	c.JSON(http.StatusOK, dto.NewRecentQuotesResponse(recent))
}

// SaveRecent handles POST /api/v1/quotes/recent. The quote is priced and
// returned even when the history store is down; persisted reports which.
func (h *QuoteHandler) SaveRecent(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	saved, err := h.pricing.SaveQuote(c.Request.Context(), middleware.Owner(c), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSavedQuoteResponse(saved))
}

// DeleteRecent handles DELETE /api/v1/quotes/recent/:id.
func (h *QuoteHandler) DeleteRecent(c *gin.Context) {
	err := h.pricing.DeleteRecent(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearRecent handles DELETE /api/v1/quotes/recent.
func (h *QuoteHandler) ClearRecent(c *gin.Context) {
	if err := h.pricing.ClearRecent(c.Request.Context(), middleware.Owner(c)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportRecent handles GET /api/v1/quotes/recent/export.
func (h *QuoteHandler) ExportRecent(c *gin.Context) {
	doc, err := h.export.ExportHistory(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	sendExport(c, doc)
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.POST("", h.Calculate)
	quotes.POST("/export", h.Export)
	quotes.GET("/export/formats", h.Formats)

	recent := quotes.Group("/recent")
	recent.GET("", h.ListRecent)
	recent.POST("", h.SaveRecent)
	recent.DELETE("", h.ClearRecent)
	recent.DELETE("/:id", h.DeleteRecent)
	recent.GET("/export", h.ExportRecent)
}

func sendExport(c *gin.Context, doc *app.Export) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
