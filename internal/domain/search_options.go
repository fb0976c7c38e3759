package domain

import "time"

// SearchOptions represents search criteria for time entries.
// This is a domain model that mirrors the database search options
// but belongs to the domain layer for proper separation of concerns.
type SearchOptions struct {
	UserID     *int64
	From       *time.Time
	To         *time.Time
	FlagStatus *FlagStatus
	OpenOnly   bool
}
