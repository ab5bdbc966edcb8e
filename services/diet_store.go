package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vitalis-Health-Tracker/diet-service/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DietStore is the persistence contract the aggregator consumes. Lookups
// that find nothing return ErrDietNotFound; transport and database
// failures come back wrapped in ErrStoreUnavailable so callers can tell
// "absent" from "down".
type DietStore interface {
	FindByUserAndDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) (*models.Diet, error)
	FindByID(ctx context.Context, id string) (*models.Diet, error)
	FindByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Diet, error)
	Insert(ctx context.Context, diet *models.Diet) (*models.Diet, error)
	Replace(ctx context.Context, diet *models.Diet) (*models.Diet, error)
}

// GormDietStore persists diet records in Postgres: one diets row plus
// ordered food_entries child rows.
type GormDietStore struct {
	db *gorm.DB
}

func NewGormDietStore(db *gorm.DB) *GormDietStore {
	return &GormDietStore{db: db}
}

func (s *GormDietStore) preloadFoods(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Foods", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (s *GormDietStore) FindByUserAndDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) (*models.Diet, error) {
	var diet models.Diet
	err := s.preloadFoods(ctx).
		Where("user_id = ? AND diet_date >= ? AND diet_date < ?", userID, dayStart, dayEnd).
		First(&diet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("diet for user %s on %s: %w", userID, dayStart.Format("2006-01-02"), ErrDietNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query diet by user and day: %w: %v", ErrStoreUnavailable, err)
	}
	return &diet, nil
}

func (s *GormDietStore) FindByID(ctx context.Context, id string) (*models.Diet, error) {
	var diet models.Diet
	err := s.preloadFoods(ctx).
		Where("id = ?", id).
		First(&diet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("diet %s: %w", id, ErrDietNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query diet by id: %w: %v", ErrStoreUnavailable, err)
	}
	return &diet, nil
}

func (s *GormDietStore) FindByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Diet, error) {
	diets := make([]models.Diet, 0) // non-nil so an empty range serializes as []
	err := s.preloadFoods(ctx).
		Where("user_id = ? AND diet_date >= ? AND diet_date < ?", userID, start, end).
		Order("diet_date ASC").
		Find(&diets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query diets by date range: %w: %v", ErrStoreUnavailable, err)
	}
	return diets, nil
}

// Insert stores a new diet record, generating its id.
func (s *GormDietStore) Insert(ctx context.Context, diet *models.Diet) (*models.Diet, error) {
	if diet.ID == "" {
		diet.ID = uuid.NewString()
	}
	for i := range diet.Foods {
		diet.Foods[i].DietID = diet.ID
		diet.Foods[i].Position = i
	}
	if err := s.db.WithContext(ctx).Create(diet).Error; err != nil {
		return nil, fmt.Errorf("failed to insert diet: %w: %v", ErrStoreUnavailable, err)
	}
	return diet, nil
}

// Replace swaps the full document in one transaction: the old food rows
// are deleted and the current list recreated, then the parent's derived
// total is written.
func (s *GormDietStore) Replace(ctx context.Context, diet *models.Diet) (*models.Diet, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("diet_id = ?", diet.ID).Delete(&models.FoodEntry{}).Error; err != nil {
			return err
		}
		for i := range diet.Foods {
			diet.Foods[i].ID = 0 // force fresh rows
			diet.Foods[i].DietID = diet.ID
			diet.Foods[i].Position = i
			if err := tx.Create(&diet.Foods[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Diet{}).
			Where("id = ?", diet.ID).
			Update("total_calories", diet.TotalCalories).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace diet %s: %w: %v", diet.ID, ErrStoreUnavailable, err)
	}
	return diet, nil
}
