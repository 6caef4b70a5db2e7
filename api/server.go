package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cyverse-de/notification-dispatcher/handlers"
	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Pinger is implemented by notification stores that can report whether they're reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server maps HTTP requests onto the notification handlers.
type Server struct {
	router     *gin.Engine
	dispatcher *handlers.Dispatcher
	lifecycle  *handlers.Lifecycle
	pinger     Pinger
	log        *logrus.Entry
}

// NewServer returns a new HTTP server for the notification handlers. The pinger may be nil, in which case the service
// always reports itself as ready.
func NewServer(dispatcher *handlers.Dispatcher, lifecycle *handlers.Lifecycle, pinger Pinger, log *logrus.Entry) *Server {
	router := gin.New()
	router.Use(Recovery(log))
	router.Use(RequestLogger(log))

	s := &Server{
		router:     router,
		dispatcher: dispatcher,
		lifecycle:  lifecycle,
		pinger:     pinger,
		log:        log,
	}
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth())
	s.router.GET("/readyz", s.handleReady())
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.POST("/notifications", s.handleCreate())

		user := api.Group("/user/:id")
		{
			user.GET("/notifications", s.handleFetch())
			user.GET("/notifications/:notificationId", s.handleFetchOne())
			user.PATCH("/notifications", s.handleMarkRead())
			user.PATCH("/update", s.handleEdit())
			user.DELETE("/delete", s.handleDelete())
		}
	}
}

// bindBody decodes a JSON request body. An empty body is treated as an empty JSON object.
func (s *Server) bindBody(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	s.log.WithError(err).WithField("path", c.FullPath()).Debug("unable to decode the request body")
	fail(c, http.StatusBadRequest, "Invalid request body", []string{msgInvalidBody})
	return false
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) handleReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()

			if err := s.pinger.Ping(ctx); err != nil {
				s.log.WithError(err).Warn("notification store is not ready")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_not_ready"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// handleCreate stores a new notification and publishes it for delivery.
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in model.CreateInput
		if !s.bindBody(c, &in) {
			return
		}

		notification, err := s.dispatcher.CreateAndDispatch(c.Request.Context(), in)
		if err != nil {
			writeError(c, s.log, err)
			return
		}

		success(c, http.StatusCreated, "Notification created", notification)
	}
}

// handleFetch lists a user's notifications, most recent first.
func (s *Server) handleFetch() gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := s.lifecycle.Fetch(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, s.log, err)
			return
		}

		success(c, http.StatusOK, "Notifications fetched", notifications)
	}
}

// handleFetchOne looks up a single notification belonging to a user.
func (s *Server) handleFetchOne() gin.HandlerFunc {
	return func(c *gin.Context) {
		notification, err := s.lifecycle.FetchOne(c.Request.Context(), c.Param("id"), c.Param("notificationId"))
		if err != nil {
			writeError(c, s.log, err)
			return
		}

		success(c, http.StatusOK, "Notification fetched", notification)
	}
}

// handleMarkRead marks one notification as read, or all of them if the body doesn't name a notification.
func (s *Server) handleMarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in model.MarkReadInput
		if !s.bindBody(c, &in) {
			return
		}
		in.UserID = c.Param("id")

		result, err := s.lifecycle.MarkRead(c.Request.Context(), in)
		if err != nil {
			writeError(c, s.log, err)
			return
		}

		if result.Notification != nil {
			success(c, http.StatusOK, "Notification marked as read", result.Notification)
			return
		}
		message := fmt.Sprintf("%d notifications marked as read", result.Count)
		success(c, http.StatusOK, message, CountResponse{Count: result.Count})
	}
}

// handleEdit replaces the message text of a notification.
func (s *Server) handleEdit() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in model.EditInput
		if !s.bindBody(c, &in) {
			return
		}

		notification, err := s.lifecycle.EditMessage(c.Request.Context(), in)
		if err != nil {
			writeError(c, s.log, err)
			return
		}

		success(c, http.StatusOK, "Notification updated", notification)
	}
}

// handleDelete permanently removes a notification.
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in model.DeleteInput
		if !s.bindBody(c, &in) {
			return
		}

		if err := s.lifecycle.Delete(c.Request.Context(), in); err != nil {
			writeError(c, s.log, err)
			return
		}

		success(c, http.StatusOK, "Notification deleted successfully", nil)
	}
}
