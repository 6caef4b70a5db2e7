package api

import (
	"net/http"

	"github.com/cyverse-de/notification-dispatcher/handlers"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response statuses. StatusFail is used for problems caused by the client and StatusError for problems on our end.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

const msgInternalError = "Internal server error"

// msgInvalidBody is reported when a request body can't be decoded.
const msgInvalidBody = "request body must be a JSON object with string fields"

// Response is the envelope used for every response body.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// CountResponse is the data returned when all of a user's notifications are marked as read.
type CountResponse struct {
	Count int64 `json:"count"`
}

func success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{Status: StatusSuccess, Message: message, Data: data})
}

func fail(c *gin.Context, code int, message string, errs []string) {
	c.JSON(code, Response{Status: StatusFail, Message: message, Errors: errs})
}

// writeError converts an error returned by the handlers into a response. Internal details are logged but never sent
// to the client.
func writeError(c *gin.Context, log *logrus.Entry, err error) {
	switch e := err.(type) {
	case handlers.ValidationError:
		fail(c, http.StatusBadRequest, "Validation error", e.Messages())
	case handlers.NotFoundError:
		fail(c, http.StatusNotFound, "Notification not found", nil)
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, Response{Status: StatusError, Message: msgInternalError})
	}
}
