package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Vitalis-Health-Tracker/diet-service/models"
	"github.com/Vitalis-Health-Tracker/diet-service/utils"
	"github.com/google/uuid"
)

// LookupClient resolves a food name to its nutrition snapshot.
type LookupClient interface {
	Resolve(ctx context.Context, foodName string) (*models.FoodEntry, error)
}

// DietService orchestrates staging, catalog lookups and the per-day diet
// record. It owns the find-or-create policy: "look up the day's record,
// insert if absent, append-and-replace if present" is not atomic against
// the store, so every mutation of a (user, day) runs inside an in-process
// critical section keyed by that pair.
//
// The critical section only covers a single instance. Running more than
// one replica needs a conditional upsert in the store instead; until then
// this service must be deployed as a single instance.
type DietService struct {
	store   DietStore
	lookup  LookupClient
	staging *StagingBuffer
	hub     *DietHub // optional, may be nil

	mu       sync.Mutex
	dayLocks map[string]*refLock
}

// refLock is a reference-counted mutex; the last holder to release drops
// the map entry, so dayLocks never accumulates past days.
type refLock struct {
	mu   sync.Mutex
	refs int
}

func NewDietService(store DietStore, lookup LookupClient, staging *StagingBuffer, hub *DietHub) *DietService {
	return &DietService{
		store:    store,
		lookup:   lookup,
		staging:  staging,
		hub:      hub,
		dayLocks: make(map[string]*refLock),
	}
}

// lockDay acquires the critical section for (userID, day) and returns
// its release func.
func (s *DietService) lockDay(userID string, dayStart time.Time) func() {
	key := userID + "|" + dayStart.Format("2006-01-02")
	s.mu.Lock()
	l, ok := s.dayLocks[key]
	if !ok {
		l = &refLock{}
		s.dayLocks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.dayLocks, key)
		}
		s.mu.Unlock()
	}
}

// StageFood resolves foodName against the catalog and appends the result
// to the user's staged list. Nothing is persisted.
func (s *DietService) StageFood(ctx context.Context, userID, foodName string) (*models.FoodEntry, error) {
	entry, err := s.lookup.Resolve(ctx, foodName)
	if err != nil {
		return nil, err
	}
	s.staging.Append(userID, *entry)
	return entry, nil
}

// StageCustomFood appends a caller-supplied entry directly to staging,
// bypassing the catalog. Entries without a food id get one assigned so
// they stay editable and deletable after commit.
func (s *DietService) StageCustomFood(userID string, entry models.FoodEntry) models.FoodEntry {
	if entry.FoodID == "" {
		entry.FoodID = uuid.NewString()
	}
	s.staging.Append(userID, entry)
	return entry
}

// CommitDiet folds the user's staged foods into today's diet record,
// creating it if this is the first commit of the day. An empty staging
// list still yields a record with zero foods. Staging is cleared only
// after the store write succeeds; a failed write leaves it intact so a
// retry reproduces the same commit.
func (s *DietService) CommitDiet(ctx context.Context, userID string) (*models.Diet, error) {
	var out *models.Diet
	err := s.staging.WithExclusive(userID, func(staged []models.FoodEntry) error {
		diet, err := s.upsertDay(ctx, userID, time.Now(), staged)
		if err != nil {
			return err
		}
		out = diet
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(userID, out)
	return out, nil
}

// AddFoodDirect is lookup + find-or-create + append + persist in one
// call, for callers that do not want a staging step.
func (s *DietService) AddFoodDirect(ctx context.Context, userID, foodName string) (*models.Diet, error) {
	entry, err := s.lookup.Resolve(ctx, foodName)
	if err != nil {
		return nil, err
	}
	diet, err := s.upsertDay(ctx, userID, time.Now(), []models.FoodEntry{*entry})
	if err != nil {
		return nil, err
	}
	s.notify(userID, diet)
	return diet, nil
}

// upsertDay appends newFoods to the record for (userID, day of at),
// inserting the record if none exists. Runs under the (user, day) lock.
func (s *DietService) upsertDay(ctx context.Context, userID string, at time.Time, newFoods []models.FoodEntry) (*models.Diet, error) {
	dayStart, dayEnd := utils.DayWindow(at)
	unlock := s.lockDay(userID, dayStart)
	defer unlock()

	existing, err := s.store.FindByUserAndDay(ctx, userID, dayStart, dayEnd)
	if err != nil && !errors.Is(err, ErrDietNotFound) {
		return nil, err
	}
	if existing == nil {
		diet := &models.Diet{
			UserID:   userID,
			DietDate: at,
			Foods:    newFoods,
		}
		diet.TotalCalories = utils.TotalCalories(diet.Foods)
		return s.store.Insert(ctx, diet)
	}

	existing.Foods = append(existing.Foods, newFoods...)
	existing.TotalCalories = utils.TotalCalories(existing.Foods)
	return s.store.Replace(ctx, existing)
}

// EditFood replaces the mutable fields of one food entry in the record
// and recomputes the total. The record is left untouched when the food
// id does not match anything.
func (s *DietService) EditFood(ctx context.Context, recordID, foodID string, updated models.FoodEntry) (*models.Diet, error) {
	diet, err := s.store.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	dayStart, _ := utils.DayWindow(diet.DietDate)
	unlock := s.lockDay(diet.UserID, dayStart)
	defer unlock()

	// re-read under the lock so a commit for the same day can't be clobbered
	diet, err = s.store.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	idx := foodIndex(diet.Foods, foodID)
	if idx < 0 {
		return nil, fmt.Errorf("food %s in diet %s: %w", foodID, recordID, ErrFoodEntryNotFound)
	}

	f := &diet.Foods[idx]
	f.Name = updated.Name
	f.Grams = updated.Grams
	f.CaloriesPer100g = updated.CaloriesPer100g
	f.Fat = updated.Fat
	f.Protein = updated.Protein
	f.Sugar = updated.Sugar

	diet.TotalCalories = utils.TotalCalories(diet.Foods)
	out, err := s.store.Replace(ctx, diet)
	if err != nil {
		return nil, err
	}
	s.notify(diet.UserID, out)
	return out, nil
}

// DeleteFood removes one food entry from the record and recomputes the
// total. The record itself is never deleted, even when its last food is.
func (s *DietService) DeleteFood(ctx context.Context, recordID, foodID string) (*models.Diet, error) {
	diet, err := s.store.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	dayStart, _ := utils.DayWindow(diet.DietDate)
	unlock := s.lockDay(diet.UserID, dayStart)
	defer unlock()

	diet, err = s.store.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	idx := foodIndex(diet.Foods, foodID)
	if idx < 0 {
		return nil, fmt.Errorf("food %s in diet %s: %w", foodID, recordID, ErrFoodEntryNotFound)
	}

	diet.Foods = append(diet.Foods[:idx], diet.Foods[idx+1:]...)
	diet.TotalCalories = utils.TotalCalories(diet.Foods)
	out, err := s.store.Replace(ctx, diet)
	if err != nil {
		return nil, err
	}
	s.notify(diet.UserID, out)
	return out, nil
}

// GetDiet returns the record for the calendar day of date.
func (s *DietService) GetDiet(ctx context.Context, userID string, date time.Time) (*models.Diet, error) {
	dayStart, dayEnd := utils.DayWindow(date)
	return s.store.FindByUserAndDay(ctx, userID, dayStart, dayEnd)
}

// GetDietRange returns the records whose day falls inside [start, end],
// both truncated to calendar days. start == end means exactly one day.
func (s *DietService) GetDietRange(ctx context.Context, userID string, start, end time.Time) ([]models.Diet, error) {
	startDay, _ := utils.DayWindow(start)
	endDay, endExcl := utils.DayWindow(end)
	if startDay.After(endDay) {
		return nil, fmt.Errorf("start %s after end %s: %w",
			startDay.Format("2006-01-02"), endDay.Format("2006-01-02"), ErrInvalidRange)
	}
	return s.store.FindByUserAndDateRange(ctx, userID, startDay, endExcl)
}

// TotalCalories returns the day's derived total. A day with no record has
// zero calories; that is a documented non-error, not "not found".
func (s *DietService) TotalCalories(ctx context.Context, userID string, date time.Time) (float64, error) {
	diet, err := s.GetDiet(ctx, userID, date)
	if errors.Is(err, ErrDietNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return diet.TotalCalories, nil
}

func (s *DietService) notify(userID string, diet *models.Diet) {
	if s.hub == nil || diet == nil {
		return
	}
	s.hub.BroadcastDiet(userID, map[string]any{
		"kind": "diet.updated",
		"diet": diet,
	})
}

func foodIndex(foods []models.FoodEntry, foodID string) int {
	for i := range foods {
		if foods[i].FoodID == foodID {
			return i
		}
	}
	return -1
}
