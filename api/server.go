package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"powledger/api/handlers"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "api")

// Server represents the HTTP API server
type Server struct {
	node       handlers.Node
	port       string
	engine     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new API server
func NewServer(node handlers.Node, port string) *Server {
	server := &Server{
		node:   node,
		port:   port,
		engine: gin.New(),
	}

	server.engine.Use(gin.Recovery(), requestLogger())
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           server.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server
}

// setupRoutes configures all HTTP endpoints
func (s *Server) setupRoutes() {
	s.engine.GET("/mine", handlers.HandleMine(s.node))

	// Chain endpoints
	s.engine.GET("/chain", handlers.HandleChain(s.node))
	s.engine.GET("/blocks/:hash", handlers.HandleGetBlockByHash(s.node))

	// Transaction endpoints
	s.engine.POST("/transactions/new", handlers.HandleNewTransaction(s.node))
	s.engine.GET("/transactions/pending", handlers.HandlePendingTransactions(s.node))

	// Peer endpoints
	nodes := s.engine.Group("/nodes")
	{
		nodes.GET("", handlers.HandleListNodes(s.node))
		nodes.POST("/register", handlers.HandleRegisterNodes(s.node))
		nodes.GET("/resolve", handlers.HandleResolve(s.node))
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves HTTP requests until Shutdown is called
func (s *Server) Start() error {
	log.WithField("port", s.port).Info("starting HTTP API server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs one line per request through logrus
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"client":  c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}
