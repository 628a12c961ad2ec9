// internal/server/server.go

// Package server exposes the conversation engine over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/common/validation"
	"lease-concierge/internal/engine"
	"lease-concierge/internal/inventory"
	"lease-concierge/internal/session"
)

// Server wires the engine and inventory into gin routes.
type Server struct {
	engine    *engine.Engine
	inventory inventory.Inventory
	store     session.Store
	logger    logger.Logger
	version   string
}

func New(eng *engine.Engine, inv inventory.Inventory, store session.Store, version string, log logger.Logger) *Server {
	return &Server{
		engine:    eng,
		inventory: inv,
		store:     store,
		logger:    log,
		version:   version,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/chat", s.handleChat)
	r.GET("/inventory", s.handleInventory)
	r.GET("/sessions/:id", s.handleSession)
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) handleChat(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if err := validation.ValidateTurnRequest(payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, _ := payload["message"].(string)
	sessionID, _ := payload["sessionId"].(string)

	result, err := s.engine.HandleTurn(c.Request.Context(), sessionID, message)
	if err != nil {
		s.logger.WithError(err).Error("turn handling failed", map[string]interface{}{
			"session_id": sessionID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleInventory(c *gin.Context) {
	units, err := s.inventory.Available(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("inventory listing failed", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units, "count": len(units)})
}

func (s *Server) handleSession(c *gin.Context) {
	sess, err := s.store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": s.version,
	})
}
