package domain

import "time"

// TicketRating is satisfaction feedback left by the requester after a
// ticket is resolved or closed. One rating per ticket.
type TicketRating struct {
	ID       string
	TicketID string
	RatedBy  string
	Stars    int
	Feedback string
	RatedAt  time.Time
}

// ValidStars reports whether n is a valid 1-5 rating.
func ValidStars(n int) bool {
	return n >= 1 && n <= 5
}
