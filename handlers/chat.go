package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/finmentor/backend/services"
	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	UserMessage string `json:"userMessage"`
	Income      Number `json:"income"`
	Goal        string `json:"goal"`
	UserID      string `json:"userId"`
}

// Chat answers a coaching question and logs it in the background
func (h *APIHandler) Chat(c *gin.Context) {
	var req chatRequest
	if !bindJSON(c, &req) {
		return
	}

	income, _ := req.Income.Positive()
	reply := h.advisor.Reply(c.Request.Context(), services.AdviceRequest{
		Message: req.UserMessage,
		Income:  income,
	})

	h.log.WithFields(requestFields(c)).WithField("user_id", req.UserID).Debug("Chat request received")
	h.chatLog.LogAsync(c.Request.Context(), newSearchLog(req.UserID, req.UserMessage, req.Income, req.Goal, services.SourceChat))

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type chatLogRequest struct {
	UserID    string `json:"userId"`
	Query     string `json:"query"`
	Income    Number `json:"income"`
	Goal      string `json:"goal"`
	Timestamp string `json:"timestamp"`
}

// LogChat records a query explicitly and waits for the write
func (h *APIHandler) LogChat(c *gin.Context) {
	var req chatLogRequest
	if !bindJSON(c, &req) {
		return
	}

	entry := newSearchLog(req.UserID, req.Query, req.Income, req.Goal, services.SourceChat)
	if ts := strings.TrimSpace(req.Timestamp); ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			badRequest(c, "timestamp must be an RFC 3339 date-time")
			return
		}
		entry.Timestamp = parsed
	}

	if _, err := h.chatLog.Log(c.Request.Context(), &entry); err != nil {
		internalError(c, h.log, err, "Failed to log search")
		return
	}

	message := "Search logged"
	if !h.chatLog.HasStore() {
		message = "Search logged (no DB)"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// ListSearches returns logged queries, newest first
func (h *APIHandler) ListSearches(c *gin.Context) {
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	results, err := h.store.ListSearches(c.Request.Context(), services.SearchFilter{
		UserID: strings.TrimSpace(c.Query("userId")),
	})
	if err != nil {
		internalError(c, h.log, err, "Failed to fetch searches")
		return
	}
	c.JSON(http.StatusOK, results)
}

// newSearchLog maps optional request fields to a log entry; blanks are stored as null
func newSearchLog(userID, query string, income Number, goal, source string) services.SearchLog {
	entry := services.SearchLog{Source: source}
	if userID = strings.TrimSpace(userID); userID != "" {
		entry.UserID = &userID
	}
	if query = strings.TrimSpace(query); query != "" {
		entry.Query = &query
	}
	if v, ok := income.Positive(); ok {
		entry.Income = &v
	}
	if goal = strings.TrimSpace(goal); goal != "" {
		entry.Goal = &goal
	}
	return entry
}
