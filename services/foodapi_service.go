package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Vitalis-Health-Tracker/diet-service/models"
)

const defaultFoodAPIURL = "https://sharunraj.github.io/foodApi.github.io/FoodAPI.json"

// FoodAPIService resolves food names against the upstream nutrition
// catalog, a JSON array of foods served over HTTP.
type FoodAPIService struct {
	catalogURL string
	client     *http.Client
}

// NewFoodAPIService reads FOOD_API_URL / FOOD_API_TIMEOUT_SECONDS from the
// environment and falls back to the public catalog with a 10s timeout.
func NewFoodAPIService() *FoodAPIService {
	u := os.Getenv("FOOD_API_URL")
	if u == "" {
		u = defaultFoodAPIURL
	}
	timeout := 10 * time.Second
	if s := os.Getenv("FOOD_API_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	return &FoodAPIService{
		catalogURL: u,
		client:     &http.Client{Timeout: timeout},
	}
}

// catalog entry as served upstream
type catalogFood struct {
	FoodID      string  `json:"foodId"`
	FoodName    string  `json:"foodName"`
	FoodFat     int     `json:"foodFat"`
	FoodProtein int     `json:"foodProtein"`
	FoodSugar   int     `json:"foodSugar"`
	FoodGrams   int     `json:"foodGrams"`
	AvgCalories float64 `json:"avgCalories"`
}

// Resolve fetches the catalog and matches foodName case-insensitively
// against the exact catalog name. The catalog is re-fetched on every
// call; nothing is cached between lookups.
func (s *FoodAPIService) Resolve(ctx context.Context, foodName string) (*models.FoodEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.catalogURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w: %v", ErrLookupUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call food catalog: %w: %v", ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("food catalog returned status %d: %w", resp.StatusCode, ErrLookupUnavailable)
	}

	var foods []catalogFood
	if err := json.NewDecoder(resp.Body).Decode(&foods); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w: %v", ErrLookupUnavailable, err)
	}

	for _, f := range foods {
		if strings.EqualFold(f.FoodName, foodName) {
			return &models.FoodEntry{
				FoodID:          f.FoodID,
				Name:            f.FoodName,
				Fat:             f.FoodFat,
				Protein:         f.FoodProtein,
				Sugar:           f.FoodSugar,
				Grams:           f.FoodGrams,
				CaloriesPer100g: f.AvgCalories,
			}, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", foodName, ErrFoodNotFound)
}
