package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahmedtravel/playbook/internal/adapters/http/dto"
	"github.com/ahmedtravel/playbook/internal/adapters/http/middleware"
	"github.com/ahmedtravel/playbook/internal/app"
)

// PlaybookHandler serves WhatsApp scripts, favorites, objection handlers,
// SOP rules and cheat codes.
type PlaybookHandler struct {
	playbook *app.PlaybookService
}

// NewPlaybookHandler creates a playbook handler.
func NewPlaybookHandler(playbook *app.PlaybookService) *PlaybookHandler {
	return &PlaybookHandler{playbook: playbook}
}

// ListScripts handles GET /api/v1/scripts?category=&q=.
func (h *PlaybookHandler) ListScripts(c *gin.Context) {
	var query dto.ScriptsQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	scripts := h.playbook.Scripts(c.Request.Context(), middleware.Owner(c), query.Filter())

	c.JSON(http.StatusOK, dto.NewScriptsResponse(scripts))
}

// GetScript handles GET /api/v1/scripts/:id.
func (h *PlaybookHandler) GetScript(c *gin.Context) {
	script, err := h.playbook.Script(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewScriptResponse(script))
}

// ListFavorites handles GET /api/v1/scripts/favorites.
func (h *PlaybookHandler) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewScriptsResponse(h.playbook.FavoriteScripts(c.Request.Context(), middleware.Owner(c))))
}

// AddFavorite handles PUT /api/v1/scripts/:id/favorite.
func (h *PlaybookHandler) AddFavorite(c *gin.Context) {
	id := c.Param("id")

	if err := h.playbook.AddFavorite(c.Request.Context(), middleware.Owner(c), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FavoriteResponse{ScriptID: id, Favorite: true})
}

// RemoveFavorite handles DELETE /api/v1/scripts/:id/favorite.
func (h *PlaybookHandler) RemoveFavorite(c *gin.Context) {
	id := c.Param("id")

	if err := h.playbook.RemoveFavorite(c.Request.Context(), middleware.Owner(c), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FavoriteResponse{ScriptID: id, Favorite: false})
}

// ToggleFavorite handles POST /api/v1/scripts/:id/favorite/toggle.
func (h *PlaybookHandler) ToggleFavorite(c *gin.Context) {
	id := c.Param("id")

	on, err := h.playbook.ToggleFavorite(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FavoriteResponse{ScriptID: id, Favorite: on})
}

// ClearFavorites handles DELETE /api/v1/scripts/favorites.
func (h *PlaybookHandler) ClearFavorites(c *gin.Context) {
	if err := h.playbook.ClearFavorites(c.Request.Context(), middleware.Owner(c)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListObjections handles GET /api/v1/objections?category=&severity=&q=.
func (h *PlaybookHandler) ListObjections(c *gin.Context) {
	var query dto.ObjectionsQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewObjectionsResponse(h.playbook.Objections(c.Request.Context(), query.Filter())))
}

// GetObjection handles GET /api/v1/objections/:id.
func (h *PlaybookHandler) GetObjection(c *gin.Context) {
	objection, err := h.playbook.Objection(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewObjectionResponse(objection))
}

// ListSOPRules handles GET /api/v1/sop?importance=.
func (h *PlaybookHandler) ListSOPRules(c *gin.Context) {
	var query dto.SOPQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSOPRulesResponse(h.playbook.SOPRules(c.Request.Context(), query.Importance)))
}

// ListCheatCodes handles GET /api/v1/cheat-codes.
func (h *PlaybookHandler) ListCheatCodes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewCheatCodesResponse(h.playbook.CheatCodes(c.Request.Context())))
}

// RegisterPlaybookRoutes registers playbook routes.
func (h *PlaybookHandler) RegisterPlaybookRoutes(rg *gin.RouterGroup) {
	scripts := rg.Group("/scripts")
	scripts.GET("", h.ListScripts)
	scripts.GET("/favorites", h.ListFavorites)
	scripts.DELETE("/favorites", h.ClearFavorites)
	scripts.GET("/:id", h.GetScript)
	scripts.PUT("/:id/favorite", h.AddFavorite)
	scripts.DELETE("/:id/favorite", h.RemoveFavorite)
	scripts.POST("/:id/favorite/toggle", h.ToggleFavorite)

	rg.GET("/objections", h.ListObjections)
	rg.GET("/objections/:id", h.GetObjection)
	rg.GET("/sop", h.ListSOPRules)
	rg.GET("/cheat-codes", h.ListCheatCodes)
}
