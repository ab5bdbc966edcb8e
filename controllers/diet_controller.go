package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vitalis-Health-Tracker/diet-service/models"
	"github.com/Vitalis-Health-Tracker/diet-service/services"

	"github.com/gin-gonic/gin"
)

// DietService is the slice of the aggregator the HTTP layer needs.
type DietService interface {
	StageFood(ctx context.Context, userID, foodName string) (*models.FoodEntry, error)
	StageCustomFood(userID string, entry models.FoodEntry) models.FoodEntry
	CommitDiet(ctx context.Context, userID string) (*models.Diet, error)
	AddFoodDirect(ctx context.Context, userID, foodName string) (*models.Diet, error)
	EditFood(ctx context.Context, recordID, foodID string, updated models.FoodEntry) (*models.Diet, error)
	DeleteFood(ctx context.Context, recordID, foodID string) (*models.Diet, error)
	GetDiet(ctx context.Context, userID string, date time.Time) (*models.Diet, error)
	GetDietRange(ctx context.Context, userID string, start, end time.Time) ([]models.Diet, error)
	TotalCalories(ctx context.Context, userID string, date time.Time) (float64, error)
}

type DietController struct {
	diet DietService
}

func NewDietController(diet DietService) *DietController {
	return &DietController{diet: diet}
}

type foodNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /diet/:id/food  {"name":"Pasta"}
func (dc *DietController) StageFood(c *gin.Context) {
	var req foodNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := dc.diet.StageFood(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// POST /diet/:id/food/custom  {FoodEntry}
func (dc *DietController) StageCustomFood(c *gin.Context) {
	var entry models.FoodEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	staged := dc.diet.StageCustomFood(c.Param("id"), entry)
	c.JSON(http.StatusCreated, staged)
}

// POST /diet/:id/food/direct  {"name":"Pasta"}
func (dc *DietController) AddFoodDirect(c *gin.Context) {
	var req foodNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	diet, err := dc.diet.AddFoodDirect(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, diet)
}

// POST /diet/:id/commit
func (dc *DietController) CommitDiet(c *gin.Context) {
	diet, err := dc.diet.CommitDiet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, diet)
}

// GET /diet/:id?date=YYYY-MM-DD        → the day's record (today if omitted)
// GET /diet/:id?start=...&end=...      → records in the inclusive day range
func (dc *DietController) GetDiet(c *gin.Context) {
	userID := c.Param("id")

	if c.Query("start") != "" || c.Query("end") != "" {
		start, err := time.ParseInLocation("2006-01-02", c.Query("start"), time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'start' date, use YYYY-MM-DD"})
			return
		}
		end, err := time.ParseInLocation("2006-01-02", c.Query("end"), time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'end' date, use YYYY-MM-DD"})
			return
		}
		diets, err := dc.diet.GetDietRange(c.Request.Context(), userID, start, end)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, diets)
		return
	}

	date, ok := queryDate(c)
	if !ok {
		return
	}
	diet, err := dc.diet.GetDiet(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, diet)
}

// GET /diet/:id/calories?date=YYYY-MM-DD — never 404: an empty day is 0.
func (dc *DietController) TotalCalories(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	total, err := dc.diet.TotalCalories(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":        c.Param("id"),
		"date":           date.Format("2006-01-02"),
		"total_calories": total,
	})
}

// PUT /diet/:id/food/:foodId  {FoodEntry} — :id is the record id here.
func (dc *DietController) EditFood(c *gin.Context) {
	var entry models.FoodEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	diet, err := dc.diet.EditFood(c.Request.Context(), c.Param("id"), c.Param("foodId"), entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, diet)
}

// DELETE /diet/:id/food/:foodId — :id is the record id here.
func (dc *DietController) DeleteFood(c *gin.Context) {
	if _, err := dc.diet.DeleteFood(c.Request.Context(), c.Param("id"), c.Param("foodId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func queryDate(c *gin.Context) (time.Time, bool) {
	date := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'date', use YYYY-MM-DD"})
			return time.Time{}, false
		}
		date = parsed
	}
	return date, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFoodNotFound),
		errors.Is(err, services.ErrDietNotFound),
		errors.Is(err, services.ErrFoodEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLookupUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
