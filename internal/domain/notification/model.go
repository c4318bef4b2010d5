// Package notification holds the in-portal notification feed: per-user
// filtering, unread counts and read marking.
package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

// ---------------------------------------------------------------------------
// Notification
// ---------------------------------------------------------------------------

// Type is the feature area that raised a notification.
type Type string

const (
	TypeAppointment Type = "appointment"
	TypeMedication  Type = "medication"
	TypeSystem      Type = "system"
	TypeInventory   Type = "inventory"
)

// Notification is a single entry in a user's feed.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ---------------------------------------------------------------------------
// Feed
// ---------------------------------------------------------------------------

// Group is a user's feed with its unread badge count.
type Group struct {
	Items  []*Notification `json:"items"`
	Unread int             `json:"unread"`
}

// ForUser keeps the user's notifications in source order. An empty user id
// yields an empty group.
func ForUser(notes []*Notification, userID string) Group {
	g := Group{Items: []*Notification{}}
	if userID == "" {
		return g
	}
	for _, n := range notes {
		if n.UserID != userID {
			continue
		}
		g.Items = append(g.Items, n)
		if !n.IsRead {
			g.Unread++
		}
	}
	return g
}
