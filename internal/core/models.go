package core

import (
	"time"
)

// Status is the lifecycle state of an unban request as reported by Helix.
type Status string

const (
	StatusDenied   Status = "denied"
	StatusApproved Status = "approved"
	StatusCanceled Status = "canceled"
	StatusPending  Status = "pending"
)

// Statuses is the fixed fetch order. It determines the tie-break for
// records sharing a created_at timestamp, so keep it stable.
var Statuses = []Status{StatusDenied, StatusApproved, StatusCanceled, StatusPending}

var statusColors = map[Status]int{
	StatusDenied:   0xFF0000,
	StatusApproved: 0x00FF00,
	StatusCanceled: 0xFFA500,
	StatusPending:  0x808080,
}

var statusDisplay = map[Status]string{
	StatusDenied:   "Denied",
	StatusApproved: "Approved",
	StatusCanceled: "Canceled",
	StatusPending:  "Pending",
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

// Color returns the embed color associated with the status.
func (s Status) Color() int { return statusColors[s] }

// Display returns the capitalized form used in notifications.
func (s Status) Display() string { return statusDisplay[s] }

// UnbanRequest is one user-submitted appeal of a ban, fully sourced from
// the Helix moderation API and never mutated locally.
type UnbanRequest struct {
	ID              string    `json:"id"`
	BroadcasterID   string    `json:"broadcaster_id"`
	BroadcasterName string    `json:"broadcaster_name"`
	ModeratorName   *string   `json:"moderator_name,omitempty"`
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	CreatedAt       time.Time `json:"created_at"`
	Status          Status    `json:"status"`
	Text            string    `json:"text"`
	ResolutionText  *string   `json:"resolution_text,omitempty"`
}
