package model

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by notification stores when a notification ID doesn't refer to a stored notification.
var ErrNotFound = errors.New("notification not found")

// Channel identifies the medium used to deliver a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelInApp Channel = "in-app"
)

// Channels lists the recognized channels in the order they're reported in error messages.
var Channels = []Channel{ChannelEmail, ChannelSMS, ChannelInApp}

// ParseChannel returns the canonical channel for the given name. The unhyphenated spelling "inapp" is accepted as an
// alias for "in-app".
func ParseChannel(name string) (Channel, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "email":
		return ChannelEmail, true
	case "sms":
		return ChannelSMS, true
	case "in-app", "inapp":
		return ChannelInApp, true
	default:
		return "", false
	}
}

// Notification represents a single stored notification.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Type      Channel   `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Mutation describes a change to a single stored notification. A nil Message leaves the message text unchanged. There
// is intentionally no way to mark a notification as unread.
type Mutation struct {
	Message  *string
	MarkRead bool
}

// IsEmpty returns true if the mutation wouldn't change anything.
func (m Mutation) IsEmpty() bool {
	return m.Message == nil && !m.MarkRead
}

// DispatchMessage is the message handed to the broker for delivery. The email address and phone number are only
// carried here; they're never stored with the notification.
type DispatchMessage struct {
	NotificationID string  `json:"notificationId"`
	UserID         string  `json:"userId"`
	Message        string  `json:"message"`
	Type           Channel `json:"type"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Timestamp      string  `json:"timestamp"`
}
