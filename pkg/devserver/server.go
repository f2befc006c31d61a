// Package devserver is a local stand-in for the symptom calendar service. It
// serves the same fragment endpoints from a diskv store so the client can be
// exercised without the real deployment.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tableflip.dev/allergy/pkg/store"
)

const (
	maxHeaderBytes    = 1 << 20 // 1 MB
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Options tune the stub server.
type Options struct {
	// CSRFToken is the token every POST must carry.
	CSRFToken string
	// LegacyText renders fragments without the #stored-symptoms markers,
	// leaving only the "Name: intensity" lines.
	LegacyText bool
	Logger     *zap.Logger
}

// Server serves the fragment endpoints.
type Server struct {
	store store.Persistence
	opts  Options
	log   *zap.Logger
}

// New returns a server over s.
func New(s store.Persistence, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{store: s, opts: opts, log: opts.Logger.Named("devserver")}
}

// Handler builds the gin router with all routes registered.
func (s *Server) Handler() *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(newTemplates())
	router.Use(gin.Recovery(), s.requestLog)

	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard/") })
	router.GET("/dashboard/", s.dashboard)
	router.GET("/calendar/:year/:month/:day/", s.dateInfo)

	mutate := router.Group("/", s.csrf)
	{
		mutate.POST("/add_symptom/", s.addSymptom)
		mutate.POST("/delete_symptom/", s.deleteSymptom)
	}
	return router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("took", time.Since(start)))
	if len(c.Errors) > 0 {
		s.log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Strings("errors", c.Errors.Errors()))
	}
}

func (s *Server) csrf(c *gin.Context) {
	token := c.GetHeader("X-CSRFToken")
	if token == "" {
		token = c.PostForm("csrfmiddlewaretoken")
	}
	if s.opts.CSRFToken == "" || token != s.opts.CSRFToken {
		s.log.Warn("csrf rejected", zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.Next()
}
