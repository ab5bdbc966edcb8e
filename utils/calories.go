package utils

import (
	"time"

	"github.com/Vitalis-Health-Tracker/diet-service/models"
)

// EntryCalories computes the calories one food entry contributes:
// calories-per-100g scaled by the logged grams.
func EntryCalories(caloriesPer100g float64, grams int) float64 {
	return caloriesPer100g * float64(grams) / 100.0
}

// TotalCalories sums entry calories left to right over the food list.
func TotalCalories(foods []models.FoodEntry) float64 {
	var total float64
	for _, f := range foods {
		total += EntryCalories(f.CaloriesPer100g, f.Grams)
	}
	return total
}

// DayWindow returns the half-open window [local midnight, +24h) covering
// the calendar day of t. Every day-scoped query and lock key in the
// service goes through this so record lookups never disagree on the day.
func DayWindow(t time.Time) (start, end time.Time) {
	tt := t.In(time.Local)
	start = time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
	return start, start.Add(24 * time.Hour)
}
