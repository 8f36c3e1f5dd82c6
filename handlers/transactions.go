package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/finmentor/backend/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	defaultListDays = 30
	maxListDays     = 365
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type transactionRequest struct {
	UserID    string `json:"userId"`
	Amount    Number `json:"amount"`
	Category  string `json:"category"`
	Merchant  string `json:"merchant"`
	Note      string `json:"note"`
	Timestamp string `json:"timestamp"`
}

// CreateTransaction logs one expense
func (h *APIHandler) CreateTransaction(c *gin.Context) {
	var req transactionRequest
	if !bindJSON(c, &req) {
		return
	}

	tx, msg := h.buildTransaction(req)
	if msg != "" {
		badRequest(c, msg)
		return
	}
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	if _, err := h.store.InsertTransaction(c.Request.Context(), tx); err != nil {
		internalError(c, h.log, err, "Failed to save transaction")
		return
	}

	h.log.WithFields(requestFields(c)).WithFields(logrus.Fields{
		"user_id":  tx.UserID,
		"category": tx.Category,
		"amount":   tx.Amount,
	}).Info("Transaction saved")

	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": tx})
}

// buildTransaction validates the request; a non-empty message is the 400 reason
func (h *APIHandler) buildTransaction(req transactionRequest) (*services.Transaction, string) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, "userId is required"
	}
	amount, ok := req.Amount.Positive()
	if !ok {
		return nil, "amount must be a number greater than 0"
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		return nil, "category is required"
	}

	now := h.now()
	ts := now
	if raw := strings.TrimSpace(req.Timestamp); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, "timestamp must be an RFC 3339 date-time"
		}
		if parsed.After(now) {
			return nil, "timestamp cannot be in the future"
		}
		ts = parsed
	}

	return &services.Transaction{
		UserID:    userID,
		Amount:    math.Round(amount*100) / 100,
		Category:  category,
		Merchant:  strings.TrimSpace(req.Merchant),
		Note:      strings.TrimSpace(req.Note),
		Timestamp: ts,
	}, ""
}

// ListTransactions returns a user's recent transactions with category totals
func (h *APIHandler) ListTransactions(c *gin.Context) {
	userID, days, ok := userAndDays(c)
	if !ok {
		return
	}
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	txs, err := h.store.ListTransactions(c.Request.Context(), services.TransactionFilter{
		UserID: userID,
		Since:  h.now().AddDate(0, 0, -days),
	})
	if err != nil {
		internalError(c, h.log, err, "Failed to fetch transactions")
		return
	}

	byCategory, total := services.SummarizeByCategory(txs)
	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"total":        math.Round(total*100) / 100,
		"byCategory":   byCategory,
		"days":         days,
	})
}

// ExportTransactions returns an xlsx workbook, or a hosted link when an
// uploader is configured
func (h *APIHandler) ExportTransactions(c *gin.Context) {
	userID, days, ok := userAndDays(c)
	if !ok {
		return
	}
	if h.store == nil {
		storeUnavailable(c)
		return
	}

	data, filename, err := h.export.ExportToExcel(c.Request.Context(), userID, days)
	if err != nil {
		internalError(c, h.log, err, "Failed to export transactions")
		return
	}

	if h.uploader != nil {
		url, err := h.uploader.UploadFile(c.Request.Context(), data, filename, xlsxContentType)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "url": url, "filename": filename})
			return
		}
		h.log.WithFields(requestFields(c)).WithError(err).Warn("Export upload failed, sending file directly")
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// userAndDays reads ?userId= (required) and ?days= (default 30, 1..365)
func userAndDays(c *gin.Context) (string, int, bool) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		badRequest(c, "userId is required")
		return "", 0, false
	}

	days := defaultListDays
	if raw := c.Query("days"); raw != "" {
		n := parseNumber(raw)
		if !n.Valid || n.Value != math.Trunc(n.Value) || n.Value < 1 || n.Value > maxListDays {
			badRequest(c, fmt.Sprintf("days must be a whole number between 1 and %d", maxListDays))
			return "", 0, false
		}
		days = int(n.Value)
	}
	return userID, days, true
}
