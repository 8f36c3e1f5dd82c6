package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/finmentor/backend/services"
	"github.com/gin-gonic/gin"
)

const defaultIncome = 20000

var errBadIncome = errors.New("income must be a non-negative number")

type budgetRequest struct {
	Income Number `json:"income"`
}

// Budget splits a monthly income 50/30/20
func (h *APIHandler) Budget(c *gin.Context) {
	var req budgetRequest
	if !bindJSON(c, &req) {
		return
	}

	income, err := resolveIncome(req.Income)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, services.SplitBudget(income))
}

// BudgetReport renders the split for ?income= as a PDF download
func (h *APIHandler) BudgetReport(c *gin.Context) {
	income, err := resolveIncome(parseNumber(c.Query("income")))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	pdf, err := services.BudgetReport(services.SplitBudget(income), h.now())
	if err != nil {
		internalError(c, h.log, err, "Failed to generate report")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="finmentor-budget-%d.pdf"`, int64(income)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// resolveIncome applies the default for a missing or zero income
func resolveIncome(n Number) (float64, error) {
	if !n.Set {
		return defaultIncome, nil
	}
	if !n.Valid || n.Value < 0 {
		return 0, errBadIncome
	}
	if n.Value == 0 {
		return defaultIncome, nil
	}
	return n.Value, nil
}
