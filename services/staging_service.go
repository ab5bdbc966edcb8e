package services

import (
	"sync"

	"github.com/Vitalis-Health-Tracker/diet-service/models"
)

// StagingBuffer holds foods a user has added but not yet committed to a
// persisted diet record. Process-local by design: it is a transient cart
// and is lost on restart.
//
// Each user gets their own stage lock so staging and committing for one
// user never serialize unrelated users.
type StagingBuffer struct {
	mu    sync.Mutex // guards locks and lists maps
	locks map[string]*sync.Mutex
	lists map[string][]models.FoodEntry
}

func NewStagingBuffer() *StagingBuffer {
	return &StagingBuffer{
		locks: make(map[string]*sync.Mutex),
		lists: make(map[string][]models.FoodEntry),
	}
}

func (b *StagingBuffer) userLock(userID string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		b.locks[userID] = l
	}
	return l
}

// Append adds one entry to the end of the user's staged list.
func (b *StagingBuffer) Append(userID string, entry models.FoodEntry) {
	l := b.userLock(userID)
	l.Lock()
	defer l.Unlock()

	b.mu.Lock()
	b.lists[userID] = append(b.lists[userID], entry)
	b.mu.Unlock()
}

// Staged returns a copy of the user's staged list, in staging order.
func (b *StagingBuffer) Staged(userID string) []models.FoodEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.FoodEntry, len(b.lists[userID]))
	copy(out, b.lists[userID])
	return out
}

// WithExclusive runs fn with a snapshot of the user's staged list while
// holding that user's stage lock, so a concurrent Append can never
// interleave with a commit's read-then-clear. The list is cleared only
// when fn returns nil; on error the staged foods stay put so the caller
// can retry the same commit.
func (b *StagingBuffer) WithExclusive(userID string, fn func(staged []models.FoodEntry) error) error {
	l := b.userLock(userID)
	l.Lock()
	defer l.Unlock()

	b.mu.Lock()
	staged := make([]models.FoodEntry, len(b.lists[userID]))
	copy(staged, b.lists[userID])
	b.mu.Unlock()

	if err := fn(staged); err != nil {
		return err
	}

	b.mu.Lock()
	delete(b.lists, userID)
	b.mu.Unlock()
	return nil
}
