package usecase

import "github.com/calcthie/calcthie/internal/domain"

// MealSource names which side won a current-meal merge
type MealSource string

const (
	MealSourceLocal  MealSource = "local"
	MealSourceRemote MealSource = "remote"
	MealSourceNone   MealSource = "none"
)

// MergeFavorites unions local and remote favorites, local order first, without
// duplicates. pushNeeded is true when the result differs from the remote set.
func MergeFavorites(local, remote []int) (merged []int, pushNeeded bool) {
	seen := make(map[int]bool, len(local)+len(remote))
	merged = make([]int, 0, len(local)+len(remote))
	for _, ids := range [][]int{local, remote} {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				merged = append(merged, id)
			}
		}
	}

	remoteSet := make(map[int]bool, len(remote))
	for _, id := range remote {
		remoteSet[id] = true
	}
	return merged, len(remoteSet) != len(merged)
}

// MergeCurrentMeal picks the current meal after sign-in. A non-empty local
// meal always wins; otherwise a non-empty remote meal is adopted.
func MergeCurrentMeal(local, remote []domain.MealItem) ([]domain.MealItem, MealSource) {
	switch {
	case len(local) > 0:
		return local, MealSourceLocal
	case len(remote) > 0:
		return remote, MealSourceRemote
	}
	return nil, MealSourceNone
}
