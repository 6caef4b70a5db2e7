package model

// CreateInput is a deserialized request to create and dispatch a notification. Nothing in it has been validated.
type CreateInput struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// CreateRequest is a validated and trimmed request to create and dispatch a notification.
type CreateRequest struct {
	UserID  string
	Message string
	Type    Channel
	Email   string
	Phone   string
}

// MarkReadInput is a deserialized request to mark notifications as read. An empty NotificationID means that all of
// the user's unread notifications should be marked.
type MarkReadInput struct {
	UserID         string `json:"-"`
	NotificationID string `json:"notificationId"`
}

// MarkReadRequest is a validated request to mark notifications as read.
type MarkReadRequest struct {
	UserID         string
	NotificationID string
}

// All returns true if the request applies to all of the user's unread notifications.
func (r *MarkReadRequest) All() bool {
	return r.NotificationID == ""
}

// EditInput is a deserialized request to replace the message text of a notification.
type EditInput struct {
	NotificationID string `json:"notificationId"`
	NewMessage     string `json:"newMessage"`
}

// EditRequest is a validated request to replace the message text of a notification.
type EditRequest struct {
	NotificationID string
	NewMessage     string
}

// DeleteInput is a deserialized request to delete a notification.
type DeleteInput struct {
	NotificationID string `json:"notificationId"`
}

// DeleteRequest is a validated request to delete a notification.
type DeleteRequest struct {
	NotificationID string
}
