package handlers

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/finmentor/backend/services"
	"github.com/gin-gonic/gin"
)

type esdRequest struct {
	UserID       string `json:"userId"`
	LookbackDays Number `json:"lookbackDays"`
}

// AnalyzeSpending runs emotional-spending detection for a user
func (h *APIHandler) AnalyzeSpending(c *gin.Context) {
	var req esdRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		badRequest(c, "userId is required")
		return
	}
	lookback := 0
	if req.LookbackDays.Set {
		v := req.LookbackDays.Value
		if !req.LookbackDays.Valid || v != math.Trunc(v) {
			badRequest(c, "lookbackDays must be a whole number")
			return
		}
		lookback = int(v)
	}
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	result, err := h.detector.Analyze(c.Request.Context(), userID, lookback)
	if errors.Is(err, services.ErrInvalidInput) {
		badRequest(c, strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": "))
		return
	}
	if err != nil {
		internalError(c, h.log, err, "Failed to analyze spending")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListAlerts returns stored emotional-spending alerts for ?userId=
func (h *APIHandler) ListAlerts(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		badRequest(c, "userId is required")
		return
	}
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	alerts, err := h.detector.Alerts(c.Request.Context(), userID)
	if err != nil {
		internalError(c, h.log, err, "Failed to fetch alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
