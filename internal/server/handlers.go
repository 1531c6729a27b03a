package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pingRequest is the body of POST /api/ping. Hosts may be empty or
// absent, in which case the configured default host list is used.
type pingRequest struct {
	Hosts []string `json:"hosts"`
}

// handleLoginPage renders the login form
func (s *Server) handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{"Error": nil})
}

// handleLogin authenticates with a hard-coded admin/admin credential.
// Demo only, deliberately not a real authentication layer.
func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "admin" && password == "admin" {
		c.Redirect(http.StatusFound, "/app")
		return
	}

	c.HTML(http.StatusUnauthorized, "login", gin.H{"Error": "Invalid credentials"})
}

// handleHealth reports service liveness
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleDashboard renders the main page with run statistics
func (s *Server) handleDashboard(c *gin.Context) {
	snapshot := s.svc.Stats()

	lastResult := "failure"
	if snapshot.LastSuccess {
		lastResult = "success"
	}

	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Title":      "Platform API",
		"Endpoints":  []string{"/", "/login", "/health", "/app", "/api/ping", "/metrics"},
		"Stats":      snapshot,
		"LastResult": lastResult,
	})
}

// handlePing runs the ping pipeline for the supplied hosts. Run
// failures are carried in the response body with success=false; only a
// malformed request body produces a non-200 status.
func (s *Server) handlePing(c *gin.Context) {
	var req pingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid request body: " + err.Error(),
			})
			return
		}
	}

	start := time.Now()
	outcome := s.svc.Ping(c.Request.Context(), req.Hosts)
	observeRun(outcome, time.Since(start))

	c.JSON(http.StatusOK, outcome)
}
