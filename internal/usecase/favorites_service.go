package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/calcthie/calcthie/internal/domain"
)

// FavoritesService holds the user's favorited food ids
type FavoritesService struct {
	mu        sync.Mutex
	favorites []int
	local     domain.LocalStore
	remote    domain.RemoteStore
	syncer    *RemoteSyncer
}

// NewFavoritesService creates a favorites service. remote may be nil.
func NewFavoritesService(local domain.LocalStore, remote domain.RemoteStore, syncer *RemoteSyncer) *FavoritesService {
	return &FavoritesService{
		favorites: []int{},
		local:     local,
		remote:    remote,
		syncer:    syncer,
	}
}

// LoadFromLocal restores favorites from the local cache
func (s *FavoritesService) LoadFromLocal(ctx context.Context) error {
	stored := []int{}
	if _, err := s.local.Load(ctx, localKeyFavorites, &stored); err != nil {
		return fmt.Errorf("load favorites from local cache: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites, _ = MergeFavorites(stored, nil)
	return nil
}

// Add favorites a food. Adding an existing favorite is a no-op.
func (s *FavoritesService) Add(ctx context.Context, userID string, foodID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(ctx, userID, foodID)
}

// Remove unfavorites a food
func (s *FavoritesService) Remove(ctx context.Context, userID string, foodID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, userID, foodID)
}

// Toggle flips the favorite state of a food and reports the new state
func (s *FavoritesService) Toggle(ctx context.Context, userID string, foodID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if containsID(s.favorites, foodID) {
		s.removeLocked(ctx, userID, foodID)
		return false
	}
	s.addLocked(ctx, userID, foodID)
	return true
}

func (s *FavoritesService) addLocked(ctx context.Context, userID string, foodID int) {
	if containsID(s.favorites, foodID) {
		return
	}
	next := append(append([]int{}, s.favorites...), foodID)
	s.commit(ctx, userID, "add", next)
}

func (s *FavoritesService) removeLocked(ctx context.Context, userID string, foodID int) {
	next := make([]int, 0, len(s.favorites))
	for _, id := range s.favorites {
		if id != foodID {
			next = append(next, id)
		}
	}
	s.commit(ctx, userID, "remove", next)
}

// IsFavorite reports whether foodID is a favorite
func (s *FavoritesService) IsFavorite(foodID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return containsID(s.favorites, foodID)
}

// List returns the favorites in the order they were added
func (s *FavoritesService) List() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int{}, s.favorites...)
}

// SyncWithRemote merges local and remote favorites as a union and pushes the
// result back when the remote set was missing any of them.
func (s *FavoritesService) SyncWithRemote(ctx context.Context, userID string) error {
	if userID == "" || s.remote == nil {
		return nil
	}

	remoteIDs, err := s.remote.GetFavorites(ctx, userID)
	if err != nil {
		log.Printf("[Favorites] Failed to sync with backend: %v", err)
		return err
	}

	s.mu.Lock()
	merged, pushNeeded := MergeFavorites(s.favorites, remoteIDs)
	s.favorites = merged
	s.persistLocal(ctx, merged)
	s.mu.Unlock()

	if pushNeeded {
		if err := s.remote.PutFavorites(ctx, userID, merged); err != nil {
			log.Printf("[Favorites] Failed to push merged favorites: %v", err)
			return err
		}
	}
	log.Printf("[Favorites] Synced with backend")
	return nil
}

// commit installs next and schedules a push. Callers hold s.mu.
func (s *FavoritesService) commit(ctx context.Context, userID, action string, next []int) {
	s.favorites = next
	s.persistLocal(ctx, next)

	if userID == "" || s.remote == nil || s.syncer == nil {
		return
	}
	snapshot := append([]int{}, next...)
	s.syncer.Push("Favorites", userID, action, func(ctx context.Context) error {
		return s.remote.PutFavorites(ctx, userID, snapshot)
	})
}

func (s *FavoritesService) persistLocal(ctx context.Context, ids []int) {
	if err := s.local.Save(ctx, localKeyFavorites, ids); err != nil {
		log.Printf("[Favorites] Error saving to local cache: %v", err)
	}
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
