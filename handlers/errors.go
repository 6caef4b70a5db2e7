package handlers

import (
	"fmt"
	"strings"
)

// ValidationError indicates that a request was malformed. It carries every problem that was found in the request, in
// the order in which they were detected.
type ValidationError struct {
	messages []string
}

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.messages, "; ")
}

// Messages returns the individual field error messages.
func (e ValidationError) Messages() []string {
	return append([]string(nil), e.messages...)
}

// NewValidationError returns a new error indicating that the given problems were found in a request.
func NewValidationError(messages []string) ValidationError {
	return ValidationError{messages: append([]string(nil), messages...)}
}

// NotFoundError indicates that a request referred to a notification that doesn't exist.
type NotFoundError struct {
	message string
}

// Error returns the error message for a NotFoundError.
func (e NotFoundError) Error() string {
	return e.message
}

// NewNotFoundError returns a new error indicating that a notification couldn't be found.
func NewNotFoundError(formatString string, a ...interface{}) NotFoundError {
	return NotFoundError{message: fmt.Sprintf(formatString, a...)}
}

// StoreFailure indicates that the notification store couldn't complete an operation.
type StoreFailure struct {
	message string
}

// Error returns the error message for a StoreFailure.
func (e StoreFailure) Error() string {
	return e.message
}

// NewStoreFailure returns a new error indicating that a notification store operation failed.
func NewStoreFailure(formatString string, a ...interface{}) StoreFailure {
	return StoreFailure{message: fmt.Sprintf(formatString, a...)}
}

// PublishFailure indicates that a notification couldn't be handed to the message broker. It's only ever logged; the
// notification has already been stored by the time it can occur.
type PublishFailure struct {
	message string
}

// Error returns the error message for a PublishFailure.
func (e PublishFailure) Error() string {
	return e.message
}

// NewPublishFailure returns a new error indicating that a dispatch message couldn't be published.
func NewPublishFailure(formatString string, a ...interface{}) PublishFailure {
	return PublishFailure{message: fmt.Sprintf(formatString, a...)}
}
