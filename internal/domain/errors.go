package domain

import "errors"

// Domain errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserRequired = errors.New("user id is required")
	ErrInvalidRange = errors.New("invalid range")
	ErrUpstream     = errors.New("upstream request failed")
)

// AnalyticsRanges are the accepted analytics windows, in months
var AnalyticsRanges = []int{1, 3, 6, 12}

// DefaultAnalyticsRange is used when no range is requested
const DefaultAnalyticsRange = 6

// IsValidAnalyticsRange reports whether months is one of AnalyticsRanges
func IsValidAnalyticsRange(months int) bool {
	for _, r := range AnalyticsRanges {
		if r == months {
			return true
		}
	}
	return false
}
