package domain

import "time"

// User is an employee account. Superusers administer the whole helpdesk;
// everyone else gets access through department memberships.
type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	IsSuperuser        bool
	EmailNotifications bool
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
