package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abhisek/studydesk/internal/logger"
	"github.com/abhisek/studydesk/internal/projects"
	"github.com/abhisek/studydesk/internal/store"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	userKey         = "user"
)

// RequestID tags every request with an id, reusing the caller's when sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		}
		if u := currentUser(c); u != nil {
			fields = append(fields, "user_id", u.ID)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// RequireAuth resolves the bearer token to a user and records the request
// as user activity once it has been handled.
func RequireAuth(svc *projects.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", projects.ErrUnauthenticated)
			return
		}
		u, err := svc.UserFromToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "unauthorized", err)
			return
		}
		c.Set(userKey, u)
		c.Next()

		err = svc.RecordActivity(c.Request.Context(), &store.UserActivity{
			UserID:       u.ID,
			IPAddress:    c.ClientIP(),
			UserAgent:    truncate(c.Request.UserAgent(), 255),
			RequestedURL: truncate(c.Request.URL.RequestURI(), 255),
			Referrer:     truncate(c.Request.Referer(), 255),
		})
		if err != nil {
			log.Warn("record activity", "user_id", u.ID, "error", err)
		}
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func currentUser(c *gin.Context) *store.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*store.User)
	return u
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
