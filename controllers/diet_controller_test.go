package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vitalis-Health-Tracker/diet-service/controllers"
	"github.com/Vitalis-Health-Tracker/diet-service/models"
	"github.com/Vitalis-Health-Tracker/diet-service/routes"
	"github.com/Vitalis-Health-Tracker/diet-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDietService lets each test script the aggregator's answers.
type stubDietService struct {
	entry *models.FoodEntry
	diet  *models.Diet
	diets []models.Diet
	total float64
	err   error
}

func (s *stubDietService) StageFood(context.Context, string, string) (*models.FoodEntry, error) {
	return s.entry, s.err
}

func (s *stubDietService) StageCustomFood(_ string, entry models.FoodEntry) models.FoodEntry {
	if entry.FoodID == "" {
		entry.FoodID = "assigned-1"
	}
	return entry
}

func (s *stubDietService) CommitDiet(context.Context, string) (*models.Diet, error) {
	return s.diet, s.err
}

func (s *stubDietService) AddFoodDirect(context.Context, string, string) (*models.Diet, error) {
	return s.diet, s.err
}

func (s *stubDietService) EditFood(context.Context, string, string, models.FoodEntry) (*models.Diet, error) {
	return s.diet, s.err
}

func (s *stubDietService) DeleteFood(context.Context, string, string) (*models.Diet, error) {
	return s.diet, s.err
}

func (s *stubDietService) GetDiet(context.Context, string, time.Time) (*models.Diet, error) {
	return s.diet, s.err
}

func (s *stubDietService) GetDietRange(context.Context, string, time.Time, time.Time) ([]models.Diet, error) {
	return s.diets, s.err
}

func (s *stubDietService) TotalCalories(context.Context, string, time.Time) (float64, error) {
	return s.total, s.err
}

func newTestRouter(stub *stubDietService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dc := controllers.NewDietController(stub)
	rc := controllers.NewRealtimeController(services.NewDietHub())
	return routes.SetupRouter(dc, rc)
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleDiet() *models.Diet {
	return &models.Diet{
		ID:            "diet-1",
		UserID:        "u1",
		DietDate:      time.Now(),
		TotalCalories: 340,
		Foods: []models.FoodEntry{
			{FoodID: "f-1", Name: "Pasta", Grams: 150, CaloriesPer100g: 200},
			{FoodID: "f-2", Name: "Rice", Grams: 50, CaloriesPer100g: 80},
		},
	}
}

func TestStageFoodCreated(t *testing.T) {
	stub := &stubDietService{entry: &models.FoodEntry{FoodID: "f-1", Name: "Pasta"}}
	w := doRequest(newTestRouter(stub), http.MethodPost, "/diet/u1/food", `{"name":"Pasta"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var entry models.FoodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "Pasta", entry.Name)
}

func TestStageFoodMissingName(t *testing.T) {
	stub := &stubDietService{}
	w := doRequest(newTestRouter(stub), http.MethodPost, "/diet/u1/food", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStageFoodLookupMiss(t *testing.T) {
	stub := &stubDietService{err: fmt.Errorf("\"plutonium\": %w", services.ErrFoodNotFound)}
	w := doRequest(newTestRouter(stub), http.MethodPost, "/diet/u1/food", `{"name":"plutonium"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStageFoodCatalogUnreachable(t *testing.T) {
	stub := &stubDietService{err: fmt.Errorf("dial: %w", services.ErrLookupUnavailable)}
	w := doRequest(newTestRouter(stub), http.MethodPost, "/diet/u1/food", `{"name":"Pasta"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestStageCustomFood(t *testing.T) {
	stub := &stubDietService{}
	w := doRequest(newTestRouter(stub), http.MethodPost, "/diet/u1/food/custom",
		`{"name":"Soup","grams":300,"calories_per_100g":55}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var entry models.FoodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "assigned-1", entry.FoodID)
}

func TestCommitDiet(t *testing.T) {
	stub := &stubDietService{diet: sampleDiet()}
	w := doRequest(newTestRouter(stub), http.MethodPost, "/diet/u1/commit", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var diet models.Diet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &diet))
	assert.Equal(t, 340.0, diet.TotalCalories)
	assert.Len(t, diet.Foods, 2)
}

func TestCommitDietStoreDown(t *testing.T) {
	stub := &stubDietService{err: fmt.Errorf("tx: %w", services.ErrStoreUnavailable)}
	w := doRequest(newTestRouter(stub), http.MethodPost, "/diet/u1/commit", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetDietNotFound(t *testing.T) {
	stub := &stubDietService{err: fmt.Errorf("today: %w", services.ErrDietNotFound)}
	w := doRequest(newTestRouter(stub), http.MethodGet, "/diet/u1?date=2024-03-15", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDietBadDate(t *testing.T) {
	stub := &stubDietService{diet: sampleDiet()}
	w := doRequest(newTestRouter(stub), http.MethodGet, "/diet/u1?date=15-03-2024", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDietRange(t *testing.T) {
	stub := &stubDietService{diets: []models.Diet{*sampleDiet()}}
	w := doRequest(newTestRouter(stub), http.MethodGet, "/diet/u1?start=2024-03-14&end=2024-03-15", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var diets []models.Diet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &diets))
	assert.Len(t, diets, 1)
}

func TestGetDietRangeInvalid(t *testing.T) {
	stub := &stubDietService{err: fmt.Errorf("range: %w", services.ErrInvalidRange)}
	w := doRequest(newTestRouter(stub), http.MethodGet, "/diet/u1?start=2024-03-15&end=2024-03-10", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTotalCaloriesNever404(t *testing.T) {
	stub := &stubDietService{total: 0}
	w := doRequest(newTestRouter(stub), http.MethodGet, "/diet/u1/calories?date=2024-03-15", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0.0, body["total_calories"])
}

func TestEditFoodNotFound(t *testing.T) {
	stub := &stubDietService{err: fmt.Errorf("food x: %w", services.ErrFoodEntryNotFound)}
	w := doRequest(newTestRouter(stub), http.MethodPut, "/diet/diet-1/food/x", `{"name":"Pasta","grams":50}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditFoodOK(t *testing.T) {
	stub := &stubDietService{diet: sampleDiet()}
	w := doRequest(newTestRouter(stub), http.MethodPut, "/diet/diet-1/food/f-1", `{"name":"Pasta","grams":50}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteFoodNoContent(t *testing.T) {
	stub := &stubDietService{diet: sampleDiet()}
	w := doRequest(newTestRouter(stub), http.MethodDelete, "/diet/diet-1/food/f-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDeleteFoodNotFound(t *testing.T) {
	stub := &stubDietService{err: fmt.Errorf("diet missing: %w", services.ErrDietNotFound)}
	w := doRequest(newTestRouter(stub), http.MethodDelete, "/diet/diet-1/food/f-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
