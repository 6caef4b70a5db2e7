// Package validation checks deserialized notification requests before anything touches the notification store or the
// message broker. Every function here is pure: each one either returns a trimmed, typed request or the complete list of
// problems found in the input.
package validation

import (
	"regexp"
	"strings"

	"github.com/cyverse-de/notification-dispatcher/common"
	"github.com/cyverse-de/notification-dispatcher/model"
)

// Error messages reported for invalid request fields.
const (
	MsgUserIDRequired         = "userId is required"
	MsgMessageRequired        = "message is required"
	MsgTypeRequired           = "type is required"
	MsgTypeInvalid            = "type must be one of email, sms, in-app"
	MsgEmailInvalid           = "email must be a valid email address"
	MsgPhoneInvalid           = "phone must be a valid phone number"
	MsgNotificationIDRequired = "notificationId is required"
	MsgNewMessageRequired     = "newMessage is required"
)

// phonePattern accepts an optional leading plus sign followed by at least ten digits, spaces or dashes.
var phonePattern = regexp.MustCompile(`^\+?[\d\s\-]{10,}$`)

// ValidateCreate validates a request to create and dispatch a notification.
func ValidateCreate(in model.CreateInput) (*model.CreateRequest, []string) {
	var errs []string

	req := &model.CreateRequest{
		UserID:  strings.TrimSpace(in.UserID),
		Message: strings.TrimSpace(in.Message),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
	}

	if req.UserID == "" {
		errs = append(errs, MsgUserIDRequired)
	}
	if req.Message == "" {
		errs = append(errs, MsgMessageRequired)
	}

	typeName := strings.TrimSpace(in.Type)
	if typeName == "" {
		errs = append(errs, MsgTypeRequired)
	} else if channel, ok := model.ParseChannel(typeName); ok {
		req.Type = channel
	} else {
		errs = append(errs, MsgTypeInvalid)
	}

	if req.Email != "" {
		if err := common.ValidateEmailAddress(req.Email); err != nil {
			errs = append(errs, MsgEmailInvalid)
		}
	}
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		errs = append(errs, MsgPhoneInvalid)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// ValidateUserID validates a user ID taken from a request and returns it trimmed.
func ValidateUserID(userID string) (string, []string) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", []string{MsgUserIDRequired}
	}
	return userID, nil
}

// ValidateNotificationID validates a notification ID taken from a request and returns it trimmed.
func ValidateNotificationID(id string) (string, []string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", []string{MsgNotificationIDRequired}
	}
	return id, nil
}

// ValidateMarkRead validates a request to mark one or all of a user's notifications as read.
func ValidateMarkRead(in model.MarkReadInput) (*model.MarkReadRequest, []string) {
	userID, errs := ValidateUserID(in.UserID)
	if errs != nil {
		return nil, errs
	}
	return &model.MarkReadRequest{
		UserID:         userID,
		NotificationID: strings.TrimSpace(in.NotificationID),
	}, nil
}

// ValidateEdit validates a request to replace the message text of a notification.
func ValidateEdit(in model.EditInput) (*model.EditRequest, []string) {
	var errs []string

	req := &model.EditRequest{
		NotificationID: strings.TrimSpace(in.NotificationID),
		NewMessage:     strings.TrimSpace(in.NewMessage),
	}
	if req.NotificationID == "" {
		errs = append(errs, MsgNotificationIDRequired)
	}
	if req.NewMessage == "" {
		errs = append(errs, MsgNewMessageRequired)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// ValidateDelete validates a request to delete a notification.
func ValidateDelete(in model.DeleteInput) (*model.DeleteRequest, []string) {
	id, errs := ValidateNotificationID(in.NotificationID)
	if errs != nil {
		return nil, errs
	}
	return &model.DeleteRequest{NotificationID: id}, nil
}
