package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/calcthie/calcthie/internal/domain"
)

// GoalsService holds the user's nutrition goals. Goals live only in the local cache.
type GoalsService struct {
	mu    sync.Mutex
	goals domain.NutritionGoals
	local domain.LocalStore
}

func NewGoalsService(local domain.LocalStore) *GoalsService {
	return &GoalsService{goals: domain.DefaultGoals, local: local}
}

// LoadFromLocal restores goals, falling back to the defaults
func (s *GoalsService) LoadFromLocal(ctx context.Context) error {
	goals := domain.DefaultGoals
	if _, err := s.local.Load(ctx, localKeyGoals, &goals); err != nil {
		return fmt.Errorf("load goals from local cache: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = goals
	return nil
}

// Set replaces the goals. Negative or non-finite values are rejected.
func (s *GoalsService) Set(ctx context.Context, goals domain.NutritionGoals) error {
	for name, v := range map[string]float64{
		"calories": goals.Calories,
		"protein":  goals.Protein,
		"carbs":    goals.Carbs,
		"fat":      goals.Fat,
		"fiber":    goals.Fiber,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s goal must be a non-negative number", domain.ErrInvalidRequest, name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = goals
	s.persistLocal(ctx)
	return nil
}

// Reset restores the default goals
func (s *GoalsService) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = domain.DefaultGoals
	s.persistLocal(ctx)
}

func (s *GoalsService) Goals() domain.NutritionGoals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals
}

// Progress compares totals against the current goals
func (s *GoalsService) Progress(totals domain.NutrientTotals) domain.GoalProgress {
	return GoalProgressFor(totals, s.Goals())
}

func (s *GoalsService) persistLocal(ctx context.Context) {
	if err := s.local.Save(ctx, localKeyGoals, s.goals); err != nil {
		log.Printf("[Goals] Error saving to local cache: %v", err)
	}
}
