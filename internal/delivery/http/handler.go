package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/calcthie/calcthie/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "calcthie-api"
	serviceVersion = "1.0.0"
	maxSearchLimit = 200
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	foods         domain.FoodLookup
	sharedMeals   *usecase.SharedMealLoader
	publicBaseURL string
}

// NewHandler creates a new HTTP handler. foods may be nil, in which case the
// food and shared meal endpoints answer 503.
func NewHandler(foods domain.FoodLookup, publicBaseURL string) *Handler {
	h := &Handler{foods: foods, publicBaseURL: publicBaseURL}
	if foods != nil {
		h.sharedMeals = usecase.NewSharedMealLoader(foods)
	}
	return h
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// SearchFoods handles GET /api/v1/foods/search?query=&dataType=&limit=&offset=
func (h *Handler) SearchFoods(c *gin.Context) {
	if !h.requireFoods(c) {
		return
	}

	query := domain.SearchQuery{
		Query:     strings.TrimSpace(c.Query("query")),
		DataTypes: c.QueryArray("dataType"),
	}
	if query.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	var err error
	if query.Limit, err = intQuery(c, "limit", 20); err != nil || query.Limit < 1 || query.Limit > maxSearchLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
		return
	}
	if query.Offset, err = intQuery(c, "offset", 0); err != nil || query.Offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return
	}

	results, err := h.foods.SearchFoods(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":  query.Query,
		"limit":  query.Limit,
		"offset": query.Offset,
		"foods":  results,
	})
}

// GetFood handles GET /api/v1/foods/:fdcId
func (h *Handler) GetFood(c *gin.Context) {
	if !h.requireFoods(c) {
		return
	}
	food, ok := h.lookupFood(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, food)
}

type portionOption struct {
	Index   int                `json:"index"`
	Label   string             `json:"label"`
	Portion domain.PortionSpec `json:"portion"`
}

// GetFoodPortions handles GET /api/v1/foods/:fdcId/portions. Index is the
// value a share token carries for the portion; -1 covers the gram portion
// and the default serving.
func (h *Handler) GetFoodPortions(c *gin.Context) {
	if !h.requireFoods(c) {
		return
	}
	food, ok := h.lookupFood(c)
	if !ok {
		return
	}

	available := usecase.AvailablePortions(*food)
	options := make([]portionOption, len(available))
	for i, portion := range available {
		index := -1
		if i > 0 && len(food.Portions) > 0 {
			index = i - 1
		}
		options[i] = portionOption{
			Index:   index,
			Label:   usecase.PortionDisplayName(portion),
			Portion: portion,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"fdcId":    food.ID,
		"portions": options,
	})
}

type evaluateMealRequest struct {
	Token string                 `json:"token"`
	Items []domain.SharedItem    `json:"items"`
	Goals *domain.NutritionGoals `json:"goals"`
}

// EvaluateMeal handles POST /api/v1/meals/evaluate. The meal is given either
// as a share token or as decoded items.
func (h *Handler) EvaluateMeal(c *gin.Context) {
	if !h.requireFoods(c) {
		return
	}

	var req evaluateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var (
		meal *usecase.SharedMeal
		err  error
	)
	switch {
	case req.Token != "" && len(req.Items) > 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide either token or items, not both"})
		return
	case req.Token != "":
		meal, err = h.sharedMeals.Load(c.Request.Context(), req.Token)
	case len(req.Items) > 0:
		meal, err = h.sharedMeals.Resolve(c.Request.Context(), req.Items)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "token or items is required"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondMeal(c, meal, req.Goals)
}

type encodeShareRequest struct {
	Items []domain.MealItem `json:"items" binding:"required"`
}

// EncodeShare handles POST /api/v1/share/encode
func (h *Handler) EncodeShare(c *gin.Context) {
	var req encodeShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one item is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": usecase.EncodeMeal(req.Items),
		"url":   usecase.ShareURL(h.publicBaseURL, req.Items),
	})
}

// DecodeShare handles GET /api/v1/share/decode?items=
func (h *Handler) DecodeShare(c *gin.Context) {
	items, err := usecase.DecodeMeal(c.Query("items"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetSharedMeal handles GET /api/v1/shared-meal?items=
func (h *Handler) GetSharedMeal(c *gin.Context) {
	if !h.requireFoods(c) {
		return
	}

	token := c.Query("items")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items parameter is required"})
		return
	}

	meal, err := h.sharedMeals.Load(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondMeal(c, meal, nil)
}

func (h *Handler) respondMeal(c *gin.Context, meal *usecase.SharedMeal, goals *domain.NutritionGoals) {
	items, err := usecase.BuildMealItems(meal.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meal":    usecase.SummarizeMeal(items, goals),
		"dropped": meal.Dropped,
	})
}

func (h *Handler) requireFoods(c *gin.Context) bool {
	if h.foods == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "food lookup is not configured"})
		return false
	}
	return true
}

func (h *Handler) lookupFood(c *gin.Context) (*domain.FoodRecord, bool) {
	fdcID, err := strconv.Atoi(c.Param("fdcId"))
	if err != nil || fdcID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fdcId must be a positive integer"})
		return nil, false
	}

	food, err := h.foods.GetFoodDetails(c.Request.Context(), fdcID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return food, true
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidShareToken),
		errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrFoodNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoValidSharedItems):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUSDAAPIFailure),
		errors.Is(err, domain.ErrFoodLookupFailed):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
