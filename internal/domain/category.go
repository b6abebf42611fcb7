package domain

import "time"

// Category classifies tickets. Keywords drive the automatic category
// suggestion applied when a ticket is created without one.
type Category struct {
	ID          string
	Name        string
	Description string
	Keywords    []string
	IsActive    bool
	CreatedAt   time.Time
}
