package domain

import "errors"

var (
	// ErrFoodNotFound is returned when a food cannot be found in the catalog
	ErrFoodNotFound = errors.New("food not found in USDA database")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidQuantity is returned for a meal item quantity that is not a positive number
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrInvalidShareToken is returned when a share token cannot be parsed
	ErrInvalidShareToken = errors.New("invalid meal share token")

	// ErrNoValidSharedItems is returned when none of a shared meal's items could be rebuilt
	ErrNoValidSharedItems = errors.New("no valid meal items found")

	// ErrFoodLookupFailed is returned when food details could not be loaded
	ErrFoodLookupFailed = errors.New("could not load food details")

	// ErrItemNotFound is returned when a meal item id is unknown
	ErrItemNotFound = errors.New("meal item not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUSDAAPIFailure is returned when USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrRemoteStoreFailure is returned when the remote user store request fails
	ErrRemoteStoreFailure = errors.New("remote store request failed")

	// ErrNotAuthenticated is returned for operations that need a signed-in user
	ErrNotAuthenticated = errors.New("user not signed in")

	// ErrSessionExpired is returned when a stored session token has expired
	ErrSessionExpired = errors.New("session expired")
)
