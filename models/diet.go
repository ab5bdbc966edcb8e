package models

import "time"

// Diet is one user's food log for a single calendar day.
// There is at most one Diet per (user, day); the service enforces this
// with find-or-create, not a database constraint.
type Diet struct {
	ID            string      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        string      `json:"user_id" gorm:"type:varchar(255);index;not null"`
	DietDate      time.Time   `json:"diet_date" gorm:"index;not null"`
	TotalCalories float64     `json:"total_calories"` // derived, recomputed on every mutation
	Foods         []FoodEntry `json:"foods" gorm:"foreignKey:DietID;references:ID"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// FoodEntry stores the nutrition snapshot for one logged food.
// Field names mirror the upstream catalog (foodFat, avgCalories, …).
type FoodEntry struct {
	ID              uint    `json:"-" gorm:"primaryKey"`
	DietID          string  `json:"-" gorm:"type:uuid;index"`
	Position        int     `json:"-"` // keeps staging order stable across replaces
	FoodID          string  `json:"food_id" gorm:"type:varchar(255);not null"`
	Name            string  `json:"name"`
	Fat             int     `json:"fat_g"`
	Protein         int     `json:"protein_g"`
	Sugar           int     `json:"sugar_g"`
	Grams           int     `json:"grams"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
}
