package services

import "errors"

// Failure taxonomy surfaced to callers. Controllers translate these with
// errors.Is; the service never retries, transient failures are the
// caller's problem.
var (
	ErrFoodNotFound      = errors.New("food not found in catalog")
	ErrLookupUnavailable = errors.New("food catalog unavailable")
	ErrStoreUnavailable  = errors.New("diet store unavailable")
	ErrDietNotFound      = errors.New("diet record not found")
	ErrFoodEntryNotFound = errors.New("food entry not found in diet record")
	ErrInvalidRange      = errors.New("invalid date range")
)
