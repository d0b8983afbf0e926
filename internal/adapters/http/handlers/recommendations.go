package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahmedtravel/playbook/internal/adapters/http/dto"
	"github.com/ahmedtravel/playbook/internal/app"
)

// RecommendationHandler serves the tour recommender.
type RecommendationHandler struct {
	recommender *app.RecommendationService
}

// NewRecommendationHandler creates a recommendation handler.
func NewRecommendationHandler(recommender *app.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommender: recommender}
}

// Questions handles GET /api/v1/recommendations/questions.
func (h *RecommendationHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewQuestionsResponse(h.recommender.Questions()))
}

// Strategies handles GET /api/v1/recommendations/strategies.
func (h *RecommendationHandler) Strategies(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StrategiesResponse{Strategies: h.recommender.Strategies()})
}

// Recommend handles POST /api/v1/recommendations.
//
// @Summary Recommend tours
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body dto.RecommendRequest true "Quiz answers or free text"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/recommendations [post]
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req dto.RecommendRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	criteria, err := req.Criteria()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	rec, err := h.recommender.Recommend(c.Request.Context(), req.Strategy, criteria)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecommendationResponse(rec))
}

// RegisterRecommendationRoutes registers recommendation routes.
func (h *RecommendationHandler) RegisterRecommendationRoutes(rg *gin.RouterGroup) {
	recs := rg.Group("/recommendations")
	recs.GET("/questions", h.Questions)
	recs.GET("/strategies", h.Strategies)
	recs.POST("", h.Recommend)
}
