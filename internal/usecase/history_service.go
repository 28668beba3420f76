package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/calcthie/calcthie/internal/domain"
)

// maxHistoryItems caps the recently viewed list
const maxHistoryItems = 10

// HistoryService tracks recently viewed foods, newest first
type HistoryService struct {
	mu     sync.Mutex
	recent []domain.FoodRecord
	local  domain.LocalStore
}

func NewHistoryService(local domain.LocalStore) *HistoryService {
	return &HistoryService{recent: []domain.FoodRecord{}, local: local}
}

func (s *HistoryService) LoadFromLocal(ctx context.Context) error {
	recent := []domain.FoodRecord{}
	if _, err := s.local.Load(ctx, localKeyHistory, &recent); err != nil {
		return fmt.Errorf("load history from local cache: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = recent
	return nil
}

// Add moves food to the front of the history
func (s *HistoryService) Add(ctx context.Context, food domain.FoodRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.FoodRecord, 0, maxHistoryItems)
	next = append(next, food)
	for _, f := range s.recent {
		if len(next) == maxHistoryItems {
			break
		}
		if f.ID != food.ID {
			next = append(next, f)
		}
	}
	s.recent = next

	if err := s.local.Save(ctx, localKeyHistory, next); err != nil {
		log.Printf("[History] Error saving to local cache: %v", err)
	}
}

func (s *HistoryService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = []domain.FoodRecord{}

	if err := s.local.Remove(ctx, localKeyHistory); err != nil {
		log.Printf("[History] Error clearing local cache: %v", err)
	}
}

func (s *HistoryService) List() []domain.FoodRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FoodRecord{}, s.recent...)
}
