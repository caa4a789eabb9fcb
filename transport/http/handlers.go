package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/service"
)

// Handlers contains HTTP handlers for the auth and target endpoints
type Handlers struct {
	authService   *service.AuthService
	targetService *service.TargetService
}

// NewHandlers creates the endpoint handlers
func NewHandlers(authService *service.AuthService, targetService *service.TargetService) *Handlers {
	return &Handlers{
		authService:   authService,
		targetService: targetService,
	}
}

// Nonce returns a fresh login nonce
func (h *Handlers) Nonce(c *gin.Context) {
	nonce, err := h.authService.IssueNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate nonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// Login handles the wallet-signature login request
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, sessionID, err := h.authService.Login(c.Request.Context(), req.Address, req.Signature, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		case errors.Is(err, core.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"sessionId": sessionID,
	})
}

// Logout deletes the session; repeating it is a safe no-op
func (h *Handlers) Logout(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	deleted, err := h.authService.Logout(c.Request.Context(), req.SessionID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": deleted})
}

// CreateTarget accepts a goal submission from the authenticated wallet
func (h *Handlers) CreateTarget(c *gin.Context) {
	var req struct {
		Goal string `json:"goal" binding:"required"`
		Days int    `json:"days" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	address, exists := c.Get("userAddress")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	taskID, err := h.targetService.CreateTarget(c.Request.Context(), req.Goal, req.Days, address.(string))
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"taskId": taskID})
}

// TargetStatus reports the task's current state. Terminal payloads are
// stable: repeated polls return the same result.
func (h *Handlers) TargetStatus(c *gin.Context) {
	taskID := c.Param("taskId")

	task, ok := h.targetService.GetStatus(taskID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "not_found"})
		return
	}

	resp := gin.H{"status": string(task.Status)}
	switch task.Status {
	case core.TaskCompleted:
		resp["hash"] = task.Hash
	case core.TaskFailed:
		resp["error"] = task.Error
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyCreation checks an on-chain transaction against an artifact hash
func (h *Handlers) VerifyCreation(c *gin.Context) {
	var req struct {
		Hash   string `json:"hash" binding:"required"`
		TxHash string `json:"txHash" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	verified := h.targetService.VerifyCreation(c.Request.Context(), req.Hash, req.TxHash)

	c.JSON(http.StatusOK, gin.H{"verified": verified})
}
