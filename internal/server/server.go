// Package server exposes the study and project services as a JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studydesk/internal/logger"
	"github.com/abhisek/studydesk/internal/projects"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Addr        string
	CORSOrigins []string
}

// Deps are the services behind the routes. Events and Health may be nil.
type Deps struct {
	Study    *study.Service
	Projects *projects.Service
	Events   store.EventRepo
	Health   func(context.Context) error
	Log      *logger.Logger
}

type Server struct {
	cfg      Config
	study    *study.Service
	projects *projects.Service
	events   store.EventRepo
	health   func(context.Context) error
	log      *logger.Logger
	engine   *gin.Engine
}

func New(cfg Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:      cfg,
		study:    deps.Study,
		projects: deps.Projects,
		events:   deps.Events,
		health:   deps.Health,
		log:      log.With("component", "server"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.log))
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(CORS(s.cfg.CORSOrigins))
	}

	r.GET("/healthcheck", s.healthcheck)

	api := r.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)

	protected := api.Group("/")
	protected.Use(RequireAuth(s.projects, s.log))
	{
		protected.GET("/me", s.me)
		protected.PUT("/me", s.updateMe)
		protected.GET("/me/activity", s.myActivity)

		protected.GET("/study/conversations", s.listConversations)
		protected.POST("/study/conversations", s.createConversation)
		protected.GET("/study/conversations/:id", s.getConversation)
		protected.GET("/study/conversations/:id/questions", s.listQuestions)
		protected.POST("/study/conversations/:id/questions", s.addQuestions)
		protected.GET("/study/questions/:id", s.getQuestion)
		protected.POST("/study/answers", s.submitAnswer)
		protected.GET("/study/bank", s.exportBank)
		protected.POST("/study/bank", s.importBank)

		protected.GET("/projects", s.listProjects)
		protected.POST("/projects", s.createProject)
		protected.GET("/projects/:id", s.getProject)
		protected.PUT("/projects/:id", s.updateProject)
		protected.DELETE("/projects/:id", s.deleteProject)
		protected.GET("/projects/:id/tasks", s.listProjectTasks)
		protected.GET("/projects/:id/timeline", s.timeline)

		protected.GET("/tasks", s.listTasks)
		protected.POST("/tasks", s.createTask)
		protected.GET("/tasks/:id", s.getTask)
		protected.PUT("/tasks/:id", s.updateTask)
		protected.DELETE("/tasks/:id", s.deleteTask)
		protected.GET("/tasks/:id/history", s.taskHistory)

		if s.events != nil {
			protected.GET("/llm/events", s.listEvents)
			protected.GET("/llm/events/:id", s.getEvent)
			protected.GET("/llm/usage", s.usage)
		}
	}
	return r
}

// Run serves until ctx is canceled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) healthcheck(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			respondError(c, http.StatusServiceUnavailable, "unavailable", err)
			return
		}
	}
	respondOK(c, gin.H{"status": "ok"})
}
